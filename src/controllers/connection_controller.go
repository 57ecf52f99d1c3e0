package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillhands/skillhands-backend/src/lib"
	"github.com/skillhands/skillhands-backend/src/models"
)

// SendConnectionRequest sends a connection request from the authenticated
// user to another user
func SendConnectionRequest(c *fiber.Ctx) error {
	recipientID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user ID format",
		})
	}

	user := c.Locals("user").(models.User)

	if err := svc.Connections.Connect(c.Context(), user.Id, recipientID); err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Connection request sent"))
}

// AcceptConnectionRequest accepts a pending request from the given sender:
// the sender starts following the authenticated user
func AcceptConnectionRequest(c *fiber.Ctx) error {
	senderID, err := primitive.ObjectIDFromHex(c.Params("senderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid sender ID format",
		})
	}

	user := c.Locals("user").(models.User)

	if err := svc.Connections.Accept(c.Context(), user.Id, senderID); err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Connection accepted"))
}

// DeclineConnectionRequest declines a pending request from the given sender
func DeclineConnectionRequest(c *fiber.Ctx) error {
	senderID, err := primitive.ObjectIDFromHex(c.Params("senderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid sender ID format",
		})
	}

	user := c.Locals("user").(models.User)

	if err := svc.Connections.Decline(c.Context(), user.Id, senderID); err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Connection request declined"))
}

// UnfollowUser removes the authenticated user's follow edge to another user
func UnfollowUser(c *fiber.Ctx) error {
	targetID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user ID format",
		})
	}

	user := c.Locals("user").(models.User)

	if err := svc.Connections.Unfollow(c.Context(), user.Id, targetID); err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("User unfollowed"))
}

// RemoveFollower removes one of the authenticated user's followers
func RemoveFollower(c *fiber.Ctx) error {
	followerID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user ID format",
		})
	}

	user := c.Locals("user").(models.User)

	if err := svc.Connections.RemoveFollower(c.Context(), user.Id, followerID); err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Follower removed"))
}
