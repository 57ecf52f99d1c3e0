package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillhands/skillhands-backend/src/controllers"
	"github.com/skillhands/skillhands-backend/src/middleware"
)

// ConnectionRoutes sets up routes for sending, accepting and declining
// connection requests and for dissolving follow edges
func ConnectionRoutes(app *fiber.App) {
	connection := app.Group("/api/v1/connections", middleware.ProtectRoute)

	connection.Post("/request/:id", controllers.SendConnectionRequest)
	connection.Put("/accept/:senderId", controllers.AcceptConnectionRequest)
	connection.Put("/decline/:senderId", controllers.DeclineConnectionRequest)
	connection.Delete("/following/:id", controllers.UnfollowUser)
	connection.Delete("/followers/:id", controllers.RemoveFollower)
}
