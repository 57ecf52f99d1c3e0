package services

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillhands/skillhands-backend/src/models"
)

// MessageService persists direct messages and pushes them over the realtime
// hub. Persistence and push are independent writes: a message can be
// delivered live and fail to persist, or the other way around.
type MessageService struct {
	Store MessageStore
	Hub   Broadcaster
}

// Send stores a message from sender to receiver. At least one of content and
// media is required.
func (s *MessageService) Send(ctx context.Context, sender, receiver primitive.ObjectID, content, media string) (*models.Message, error) {
	if sender == receiver {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cannot message yourself")
	}
	if content == "" && media == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Message content or media is required")
	}

	message := &models.Message{
		Id:         primitive.NewObjectID(),
		SenderId:   sender,
		ReceiverId: receiver,
		Content:    content,
		Media:      media,
		Read:       false,
		CreatedAt:  time.Now(),
	}
	if err := s.Store.InsertMessage(ctx, message); err != nil {
		return nil, err
	}

	if s.Hub != nil {
		s.Hub.Push(receiver, "message", message)
	}
	return message, nil
}

// Conversation returns the messages between the two users in both
// directions, oldest first.
func (s *MessageService) Conversation(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	return s.Store.Conversation(ctx, a, b)
}

// MarkRead flips the read flag on every message sent by from to reader.
func (s *MessageService) MarkRead(ctx context.Context, reader, from primitive.ObjectID) error {
	return s.Store.MarkMessagesRead(ctx, reader, from)
}
