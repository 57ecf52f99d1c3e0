package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillhands/skillhands-backend/src/models"
)

// notificationLimit caps how many notifications a single listing returns.
const notificationLimit = 50

// NotificationService creates notifications as side effects of social
// actions, keeping at most one pending entry per (sender, recipient, type,
// post) for the repeatable action types.
type NotificationService struct {
	Store NotificationStore
	Users UserStore
	Posts PostStore
	Hub   Broadcaster
}

// Notify records a notification for recipient about sender's action. Self
// notifications are a silent no-op. Rating and comment notifications tied to
// a post are bumped (timestamp refreshed, marked unread) instead of
// duplicated, as are connect requests; likes insert one entry per like
// action, and an unlike never retracts it.
func (s *NotificationService) Notify(ctx context.Context, recipient, sender primitive.ObjectID, typ models.NotificationType, postID primitive.ObjectID) (*models.Notification, error) {
	if recipient == sender {
		return nil, nil
	}

	now := time.Now()
	n := &models.Notification{
		RecipientId: recipient,
		SenderId:    sender,
		Type:        typ,
		PostId:      postID,
		Read:        false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var err error
	switch typ {
	case models.NotificationTypeRating, models.NotificationTypeComment, models.NotificationTypeConnectRequest:
		n, err = s.Store.UpsertNotification(ctx, n)
	default:
		n.Id = primitive.NewObjectID()
		err = s.Store.InsertNotification(ctx, n)
	}
	if err != nil {
		return nil, err
	}

	if s.Hub != nil {
		s.Hub.Push(recipient, "notification", n)
	}
	return n, nil
}

// ClearConnectRequest deletes the pending connect_request notification for
// the (recipient, sender) pair. Missing is fine: accept and decline both
// clear unconditionally.
func (s *NotificationService) ClearConnectRequest(ctx context.Context, recipient, sender primitive.ObjectID) error {
	return s.Store.DeleteConnectRequest(ctx, recipient, sender)
}

// List returns the user's notifications newest first, capped at 50, with
// sender and post display fields resolved. A sender or post that has since
// disappeared leaves the field unset rather than failing the listing.
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID) ([]models.NotificationDto, error) {
	notifications, err := s.Store.ListNotifications(ctx, userID, notificationLimit)
	if err != nil {
		return nil, err
	}

	dtos := make([]models.NotificationDto, 0, len(notifications))
	for _, n := range notifications {
		dto := models.NotificationDto{Notification: n}

		sender, err := s.Users.UserDisplay(ctx, n.SenderId)
		if err == nil {
			dto.Sender = sender
		} else if !errors.Is(err, ErrNotFound) {
			log.Printf("Failed to resolve notification sender %s: %v", n.SenderId.Hex(), err)
		}

		if !n.PostId.IsZero() {
			post, err := s.Posts.PostPreview(ctx, n.PostId)
			if err == nil {
				dto.Post = post
			} else if !errors.Is(err, ErrNotFound) {
				log.Printf("Failed to resolve notification post %s: %v", n.PostId.Hex(), err)
			}
		}

		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// MarkRead flips read=true on the given notifications, but only those that
// belong to userID. It reports how many were actually updated.
func (s *NotificationService) MarkRead(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "No notification IDs provided")
	}
	return s.Store.MarkNotificationsRead(ctx, userID, ids)
}
