package services

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillhands/skillhands-backend/src/models"
)

// ConnectionService drives the follow/connection-request lifecycle between
// two users. The state per ordered pair lives in four mirrored arrays on the
// user documents: connectionRequestsSent/Received while pending, then
// following/followers once accepted. A marker present on one side but not
// its mirror is treated as corrupt: both sides are pulled and the operation
// reports no matching pending request.
type ConnectionService struct {
	Users    UserStore
	Notifier *NotificationService
}

// Connect moves the (sender, recipient) pair from NONE to SENDER_REQUESTED.
// Rejected when sender already follows recipient or when a pending request
// exists in either direction.
func (s *ConnectionService) Connect(ctx context.Context, sender, recipient primitive.ObjectID) error {
	if sender == recipient {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot connect with yourself")
	}

	senderUser, recipientUser, err := s.loadPair(ctx, sender, recipient)
	if err != nil {
		return err
	}

	if containsID(senderUser.Following, recipient) {
		return fiber.NewError(fiber.StatusBadRequest, "Already following")
	}

	if hasPendingRequest(senderUser, recipientUser) {
		return fiber.NewError(fiber.StatusConflict, "Connection request already pending")
	}

	if err := s.Users.AddRequestEdge(ctx, sender, recipient); err != nil {
		return err
	}

	if _, err := s.Notifier.Notify(ctx, recipient, sender, models.NotificationTypeConnectRequest, primitive.NilObjectID); err != nil {
		log.Printf("Failed to create connect request notification: %v", err)
	}
	return nil
}

// Accept moves SENDER_REQUESTED to CONNECTED: the request markers come off
// both sides, sender starts following recipient, the original request
// notification is deleted and sender gets a connect_accept notification.
func (s *ConnectionService) Accept(ctx context.Context, recipient, sender primitive.ObjectID) error {
	if recipient == sender {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot accept your own request")
	}

	senderUser, recipientUser, err := s.loadPair(ctx, sender, recipient)
	if err != nil {
		return err
	}

	if err := s.reconcile(ctx, senderUser, recipientUser); err != nil {
		return err
	}

	if err := s.Users.PullRequestEdge(ctx, sender, recipient); err != nil {
		return err
	}
	if err := s.Users.AddFollowEdge(ctx, sender, recipient); err != nil {
		return err
	}

	if err := s.Notifier.ClearConnectRequest(ctx, recipient, sender); err != nil {
		log.Printf("Failed to delete connect request notification: %v", err)
	}
	if _, err := s.Notifier.Notify(ctx, sender, recipient, models.NotificationTypeConnectAccept, primitive.NilObjectID); err != nil {
		log.Printf("Failed to create connect accept notification: %v", err)
	}
	return nil
}

// Decline clears the pending request from both sides and deletes its
// notification. Declining an already-cleared pair still repairs and reports
// no matching request.
func (s *ConnectionService) Decline(ctx context.Context, recipient, sender primitive.ObjectID) error {
	senderUser, recipientUser, err := s.loadPair(ctx, sender, recipient)
	if err != nil {
		return err
	}

	reconcileErr := s.reconcile(ctx, senderUser, recipientUser)

	if err := s.Users.PullRequestEdge(ctx, sender, recipient); err != nil {
		return err
	}
	if err := s.Notifier.ClearConnectRequest(ctx, recipient, sender); err != nil {
		log.Printf("Failed to delete connect request notification: %v", err)
	}

	return reconcileErr
}

// Unfollow removes the one-directional follow edge from follower to
// followed. A mutual connection is just two independent edges, so the
// reverse edge, if any, survives.
func (s *ConnectionService) Unfollow(ctx context.Context, follower, followed primitive.ObjectID) error {
	if follower == followed {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot unfollow yourself")
	}

	followerUser, _, err := s.loadPair(ctx, follower, followed)
	if err != nil {
		return err
	}

	if !containsID(followerUser.Following, followed) {
		return fiber.NewError(fiber.StatusBadRequest, "Not following this user")
	}

	return s.Users.RemoveFollowEdge(ctx, follower, followed)
}

// RemoveFollower drops the edge in the opposite direction: the follower
// stops following the acting user.
func (s *ConnectionService) RemoveFollower(ctx context.Context, user, follower primitive.ObjectID) error {
	if user == follower {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot remove yourself as a follower")
	}

	currentUser, _, err := s.loadPair(ctx, user, follower)
	if err != nil {
		return err
	}

	if !containsID(currentUser.Followers, follower) {
		return fiber.NewError(fiber.StatusBadRequest, "This user is not following you")
	}

	return s.Users.RemoveFollowEdge(ctx, follower, user)
}

// reconcile verifies the pending request markers are mirrored on both sides.
// On any mismatch it pulls the stale entries from both documents and fails
// with not found so the caller never acts on half-consistent state.
func (s *ConnectionService) reconcile(ctx context.Context, senderUser, recipientUser *models.User) error {
	if hasMirroredRequest(senderUser, recipientUser) {
		return nil
	}

	if err := s.Users.PullRequestEdge(ctx, senderUser.Id, recipientUser.Id); err != nil {
		log.Printf("Failed to repair connection request state: %v", err)
	}
	return fiber.NewError(fiber.StatusNotFound, "No matching pending connection request found")
}

func (s *ConnectionService) loadPair(ctx context.Context, sender, recipient primitive.ObjectID) (*models.User, *models.User, error) {
	senderUser, err := s.Users.FindUser(ctx, sender)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return nil, nil, err
	}

	recipientUser, err := s.Users.FindUser(ctx, recipient)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return nil, nil, err
	}

	return senderUser, recipientUser, nil
}

// hasMirroredRequest reports whether sender→recipient is pending on both
// sides: recipient listed in sender's sent markers and sender listed in
// recipient's received markers.
func hasMirroredRequest(senderUser, recipientUser *models.User) bool {
	return containsID(senderUser.RequestsSent, recipientUser.Id) &&
		containsID(recipientUser.RequestsRecv, senderUser.Id)
}

// hasPendingRequest reports whether any request marker exists between the
// two users in either direction.
func hasPendingRequest(a, b *models.User) bool {
	return containsID(a.RequestsSent, b.Id) ||
		containsID(a.RequestsRecv, b.Id) ||
		containsID(b.RequestsSent, a.Id) ||
		containsID(b.RequestsRecv, a.Id)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
