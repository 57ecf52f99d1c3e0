// Package services holds the domain logic of the rating-and-social-graph
// subsystem: rating submission and aggregation, notification deduplication,
// the connection request lifecycle and chat persistence. Controllers stay
// thin; storage goes through the narrow store interfaces below, implemented
// on MongoDB in src/repository.
package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillhands/skillhands-backend/src/models"
)

// ErrNotFound is returned by stores when a document does not exist.
var ErrNotFound = errors.New("not found")

type UserStore interface {
	FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UserDisplay(ctx context.Context, id primitive.ObjectID) (*models.UserDto, error)

	// AddRequestEdge records a pending request on both sides: recipient in
	// the sender's connectionRequestsSent, sender in the recipient's
	// connectionRequestsReceived.
	AddRequestEdge(ctx context.Context, sender, recipient primitive.ObjectID) error

	// PullRequestEdge removes the pending-request markers from both sides.
	// Also used as the repair step for half-consistent state.
	PullRequestEdge(ctx context.Context, sender, recipient primitive.ObjectID) error

	// AddFollowEdge adds followed to follower's following and follower to
	// followed's followers.
	AddFollowEdge(ctx context.Context, follower, followed primitive.ObjectID) error

	RemoveFollowEdge(ctx context.Context, follower, followed primitive.ObjectID) error

	SetOverallRating(ctx context.Context, userID primitive.ObjectID, rating models.OverallRating) error
}

type PostStore interface {
	FindPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	PostPreview(ctx context.Context, id primitive.ObjectID) (*models.PostPreview, error)
	SetAverageRating(ctx context.Context, postID primitive.ObjectID, average float64) error
}

type RatingStore interface {
	// UpsertRating inserts the rating or overwrites the existing
	// (postId, reviewerId) entry in place. Reports whether a new document
	// was created.
	UpsertRating(ctx context.Context, rating *models.Rating) (created bool, err error)

	PostStats(ctx context.Context, postID primitive.ObjectID) (models.PostRatingStats, error)
	OwnerStats(ctx context.Context, ownerID primitive.ObjectID) (models.OwnerRatingStats, error)
	DeleteRatingsByPost(ctx context.Context, postID primitive.ObjectID) error
}

type NotificationStore interface {
	InsertNotification(ctx context.Context, n *models.Notification) error

	// UpsertNotification bumps the existing (recipient, sender, type, postId)
	// notification to now and unread, or creates it. The returned document is
	// the post-update state.
	UpsertNotification(ctx context.Context, n *models.Notification) (*models.Notification, error)

	DeleteConnectRequest(ctx context.Context, recipient, sender primitive.ObjectID) error
	DeleteNotificationsByPost(ctx context.Context, postID primitive.ObjectID) error
	ListNotifications(ctx context.Context, recipient primitive.ObjectID, limit int64) ([]models.Notification, error)
	MarkNotificationsRead(ctx context.Context, recipient primitive.ObjectID, ids []primitive.ObjectID) (int64, error)
}

type MessageStore interface {
	InsertMessage(ctx context.Context, m *models.Message) error
	Conversation(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error)
	MarkMessagesRead(ctx context.Context, reader, from primitive.ObjectID) error
}

// Broadcaster is the best-effort push channel keyed by user ID. Delivery is
// not guaranteed and there is no backlog for offline recipients.
type Broadcaster interface {
	Push(userID primitive.ObjectID, event string, payload interface{})
}

// Services bundles the wired domain services for the route layer.
type Services struct {
	Ratings       *RatingService
	Notifications *NotificationService
	Connections   *ConnectionService
	Messages      *MessageService
}

type Store interface {
	UserStore
	PostStore
	RatingStore
	NotificationStore
	MessageStore
}

func New(store Store, hub Broadcaster) *Services {
	notifications := &NotificationService{Store: store, Users: store, Posts: store, Hub: hub}
	return &Services{
		Ratings:       &RatingService{Ratings: store, Posts: store, Users: store, Notifier: notifications},
		Notifications: notifications,
		Connections:   &ConnectionService{Users: store, Notifier: notifications},
		Messages:      &MessageService{Store: store, Hub: hub},
	}
}
