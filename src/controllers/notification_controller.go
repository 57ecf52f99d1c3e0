package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillhands/skillhands-backend/src/lib"
	"github.com/skillhands/skillhands-backend/src/models"
)

// GetNotifications returns the authenticated user's notifications, newest
// first, with sender and post display fields resolved
func GetNotifications(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	notifications, err := svc.Notifications.List(c.Context(), user.Id)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":       true,
		"notifications": notifications,
	})
}

// MarkNotificationsRead marks the given notifications as read. Only
// notifications belonging to the authenticated user are touched
func MarkNotificationsRead(c *fiber.Ctx) error {
	var req struct {
		NotificationIds []string `json:"notificationIds"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	ids := make([]primitive.ObjectID, 0, len(req.NotificationIds))
	for _, raw := range req.NotificationIds {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid notification ID format",
			})
		}
		ids = append(ids, id)
	}

	user := c.Locals("user").(models.User)

	modified, err := svc.Notifications.MarkRead(c.Context(), user.Id, ids)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"modified": modified,
	})
}
