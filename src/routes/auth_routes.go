package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillhands/skillhands-backend/src/controllers"
	"github.com/skillhands/skillhands-backend/src/middleware"
)

func AuthRoutes(app *fiber.App) {
	auth := app.Group("/api/v1/auth")

	auth.Post("/signup", controllers.Signup)
	auth.Post("/login", controllers.Login)
	auth.Post("/logout", controllers.Logout)
	auth.Get("/me", middleware.ProtectRoute, controllers.GetCurrentUser)
}
