package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillhands/skillhands-backend/src/controllers"
	"github.com/skillhands/skillhands-backend/src/middleware"
)

func NotificationRoutes(app *fiber.App) {
	notification := app.Group("/api/v1/notifications", middleware.ProtectRoute)

	notification.Get("/", controllers.GetNotifications)
	notification.Put("/read", controllers.MarkNotificationsRead)
}
