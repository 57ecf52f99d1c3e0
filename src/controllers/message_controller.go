package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillhands/skillhands-backend/src/lib"
	"github.com/skillhands/skillhands-backend/src/models"
)

// GetMessages returns the conversation with the user given in the userId
// query parameter and marks their messages as read
func GetMessages(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	otherID, err := primitive.ObjectIDFromHex(c.Query("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user ID format",
		})
	}

	messages, err := svc.Messages.Conversation(c.Context(), user.Id, otherID)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	if err := svc.Messages.MarkRead(c.Context(), user.Id, otherID); err != nil {
		log.Printf("Error marking messages read: %v", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"messages": messages,
	})
}

// SendMessage stores a direct message and pushes it to the receiver's
// realtime session when one is open
func SendMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	var body struct {
		ReceiverId string `json:"receiverId"`
		Content    string `json:"content"`
		Media      string `json:"media"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	receiverID, err := primitive.ObjectIDFromHex(body.ReceiverId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid receiver ID format",
		})
	}

	message, err := svc.Messages.Send(c.Context(), user.Id, receiverID, body.Content, body.Media)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"message":     "Message sent",
		"sentMessage": message,
	})
}
