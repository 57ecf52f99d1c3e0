package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillhands/skillhands-backend/src/lib"
	"github.com/skillhands/skillhands-backend/src/models"
)

// SubmitRating records the authenticated user's rating on a post and returns
// the stored rating, the post's refreshed average and the owner's refreshed
// overall rating
func SubmitRating(c *fiber.Ctx) error {
	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid post ID format",
		})
	}

	var req struct {
		Value    int    `json:"value"`
		Feedback string `json:"feedback"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	user := c.Locals("user").(models.User)

	result, err := svc.Ratings.Submit(c.Context(), postID, user.Id, req.Value, req.Feedback)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":          true,
		"message":          "Rating submitted",
		"rating":           result.Rating,
		"averageRating":    result.AverageRating,
		"newOverallRating": result.OverallRating,
	})
}
