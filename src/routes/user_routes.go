package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillhands/skillhands-backend/src/controllers"
	"github.com/skillhands/skillhands-backend/src/middleware"
)

// UserRoutes sets up profile and social-graph routes. The /me routes are
// registered before /:id so they are not swallowed by the parameter match
func UserRoutes(app *fiber.App) {
	user := app.Group("/api/v1/users", middleware.ProtectRoute)

	user.Patch("/me", controllers.UpdateProfile)
	user.Get("/me/connections", controllers.GetConnections)
	user.Get("/me/wishlist", controllers.GetWishlist)
	user.Get("/:id", controllers.GetUserProfile)
	user.Get("/:id/posts", controllers.GetUserPosts)
	user.Get("/:id/followers", controllers.GetFollowers)
	user.Get("/:id/following", controllers.GetFollowing)
}
