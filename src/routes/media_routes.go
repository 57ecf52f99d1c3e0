package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillhands/skillhands-backend/src/controllers"
	"github.com/skillhands/skillhands-backend/src/middleware"
)

func MediaRoutes(app *fiber.App) {
	app.Post("/api/v1/uploads", middleware.ProtectRoute, controllers.UploadMedia)
	app.Get("/api/v1/geocode", middleware.ProtectRoute, controllers.GeocodeAddress)
}
