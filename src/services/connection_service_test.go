package services

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillhands/skillhands-backend/src/models"
)

func TestConnectAcceptLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestServices(store)

	sender := store.addUser("sender")
	recipient := store.addUser("recipient")

	require.NoError(t, svc.Connections.Connect(ctx, sender.Id, recipient.Id))

	senderDoc, _ := store.FindUser(ctx, sender.Id)
	recipientDoc, _ := store.FindUser(ctx, recipient.Id)
	assert.Contains(t, senderDoc.RequestsSent, recipient.Id)
	assert.Contains(t, recipientDoc.RequestsRecv, sender.Id)
	assert.Equal(t, 1, store.countNotifications(recipient.Id, models.NotificationTypeConnectRequest))

	require.NoError(t, svc.Connections.Accept(ctx, recipient.Id, sender.Id))

	senderDoc, _ = store.FindUser(ctx, sender.Id)
	recipientDoc, _ = store.FindUser(ctx, recipient.Id)
	assert.Empty(t, senderDoc.RequestsSent)
	assert.Empty(t, recipientDoc.RequestsRecv)
	assert.Contains(t, senderDoc.Following, recipient.Id)
	assert.Contains(t, recipientDoc.Followers, sender.Id)

	// The follow edge is one-directional until the recipient connects back.
	assert.Empty(t, recipientDoc.Following)
	assert.Empty(t, senderDoc.Followers)

	// Accepting clears the request notification and notifies the sender.
	assert.Equal(t, 0, store.countNotifications(recipient.Id, models.NotificationTypeConnectRequest))
	assert.Equal(t, 1, store.countNotifications(sender.Id, models.NotificationTypeConnectAccept))
}

func TestConnectRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestServices(store)

	sender := store.addUser("sender")
	recipient := store.addUser("recipient")

	require.NoError(t, svc.Connections.Connect(ctx, sender.Id, recipient.Id))

	var fiberErr *fiber.Error

	// Same direction again.
	err := svc.Connections.Connect(ctx, sender.Id, recipient.Id)
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusConflict, fiberErr.Code)

	// Reverse direction while the first request is still pending.
	err = svc.Connections.Connect(ctx, recipient.Id, sender.Id)
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusConflict, fiberErr.Code)

	require.NoError(t, svc.Connections.Accept(ctx, recipient.Id, sender.Id))

	// Once following, a repeat connect is a plain bad request.
	err = svc.Connections.Connect(ctx, sender.Id, recipient.Id)
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
}

func TestConnectSelf(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestServices(store)

	user := store.addUser("user")

	var fiberErr *fiber.Error
	err := svc.Connections.Connect(ctx, user.Id, user.Id)
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
}

func TestDeclineClearsRequest(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestServices(store)

	sender := store.addUser("sender")
	recipient := store.addUser("recipient")

	require.NoError(t, svc.Connections.Connect(ctx, sender.Id, recipient.Id))
	require.NoError(t, svc.Connections.Decline(ctx, recipient.Id, sender.Id))

	senderDoc, _ := store.FindUser(ctx, sender.Id)
	recipientDoc, _ := store.FindUser(ctx, recipient.Id)
	assert.Empty(t, senderDoc.RequestsSent)
	assert.Empty(t, recipientDoc.RequestsRecv)
	assert.Empty(t, senderDoc.Following)
	assert.Equal(t, 0, store.countNotifications(recipient.Id, models.NotificationTypeConnectRequest))

	// Declined means gone: a later accept finds nothing.
	var fiberErr *fiber.Error
	err := svc.Connections.Accept(ctx, recipient.Id, sender.Id)
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusNotFound, fiberErr.Code)
}

func TestAcceptRepairsHalfConsistentState(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestServices(store)

	sender := store.addUser("sender")
	recipient := store.addUser("recipient")

	// Marker on one side only, as if the mirroring write was lost.
	store.users[sender.Id].RequestsSent = addID(nil, recipient.Id)

	var fiberErr *fiber.Error
	err := svc.Connections.Accept(ctx, recipient.Id, sender.Id)
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusNotFound, fiberErr.Code)

	// The stale marker is pulled, no follow edge appears.
	senderDoc, _ := store.FindUser(ctx, sender.Id)
	recipientDoc, _ := store.FindUser(ctx, recipient.Id)
	assert.Empty(t, senderDoc.RequestsSent)
	assert.Empty(t, senderDoc.Following)
	assert.Empty(t, recipientDoc.Followers)

	// After the repair a fresh request goes through.
	require.NoError(t, svc.Connections.Connect(ctx, sender.Id, recipient.Id))
}

func TestUnfollowAndRemoveFollower(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestServices(store)

	sender := store.addUser("sender")
	recipient := store.addUser("recipient")

	require.NoError(t, svc.Connections.Connect(ctx, sender.Id, recipient.Id))
	require.NoError(t, svc.Connections.Accept(ctx, recipient.Id, sender.Id))

	var fiberErr *fiber.Error

	// Recipient never followed sender, so unfollow in that direction fails.
	err := svc.Connections.Unfollow(ctx, recipient.Id, sender.Id)
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)

	require.NoError(t, svc.Connections.Unfollow(ctx, sender.Id, recipient.Id))

	senderDoc, _ := store.FindUser(ctx, sender.Id)
	recipientDoc, _ := store.FindUser(ctx, recipient.Id)
	assert.Empty(t, senderDoc.Following)
	assert.Empty(t, recipientDoc.Followers)

	// Edge is gone on both views, removing it again fails.
	err = svc.Connections.RemoveFollower(ctx, recipient.Id, sender.Id)
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
}

func TestRemoveFollowerDropsEdge(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestServices(store)

	sender := store.addUser("sender")
	recipient := store.addUser("recipient")

	require.NoError(t, svc.Connections.Connect(ctx, sender.Id, recipient.Id))
	require.NoError(t, svc.Connections.Accept(ctx, recipient.Id, sender.Id))

	require.NoError(t, svc.Connections.RemoveFollower(ctx, recipient.Id, sender.Id))

	senderDoc, _ := store.FindUser(ctx, sender.Id)
	recipientDoc, _ := store.FindUser(ctx, recipient.Id)
	assert.Empty(t, senderDoc.Following)
	assert.Empty(t, recipientDoc.Followers)
}
