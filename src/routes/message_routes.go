package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillhands/skillhands-backend/src/controllers"
	"github.com/skillhands/skillhands-backend/src/middleware"
)

func MessageRoutes(app *fiber.App) {
	message := app.Group("/api/v1/messages", middleware.ProtectRoute)

	message.Get("/", controllers.GetMessages)
	message.Post("/", controllers.SendMessage)
}
