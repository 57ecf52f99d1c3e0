package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillhands/skillhands-backend/src/controllers"
	"github.com/skillhands/skillhands-backend/src/middleware"
)

// PostRoutes sets up routes for the feed, post CRUD, search, and the
// per-post interactions: likes, comments, saves and ratings
func PostRoutes(app *fiber.App) {
	post := app.Group("/api/v1/posts", middleware.ProtectRoute)

	post.Get("/feed", controllers.GetFeedPosts)
	post.Get("/search", controllers.SearchPosts)
	post.Post("/", controllers.CreatePost)
	post.Get("/:id", controllers.GetPostByID)
	post.Delete("/:id", controllers.DeletePost)
	post.Put("/:id/like", controllers.LikePost)
	post.Post("/:id/comment", controllers.CreateComment)
	post.Put("/:id/save", controllers.SavePost)
	post.Post("/:id/rating", controllers.SubmitRating)
}
