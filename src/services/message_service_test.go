package services

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessagePersistsAndPushes(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, hub := newTestServices(store)

	alice := store.addUser("alice")
	bob := store.addUser("bob")

	sent, err := svc.Messages.Send(ctx, alice.Id, bob.Id, "hello", "")
	require.NoError(t, err)
	assert.False(t, sent.Read)

	require.Len(t, hub.pushes, 1)
	assert.Equal(t, bob.Id, hub.pushes[0].UserID)
	assert.Equal(t, "message", hub.pushes[0].Event)

	conversation, err := svc.Messages.Conversation(ctx, bob.Id, alice.Id)
	require.NoError(t, err)
	require.Len(t, conversation, 1)
	assert.Equal(t, "hello", conversation[0].Content)
}

func TestSendMessageValidation(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestServices(store)

	alice := store.addUser("alice")
	bob := store.addUser("bob")

	var fiberErr *fiber.Error

	_, err := svc.Messages.Send(ctx, alice.Id, alice.Id, "hi", "")
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)

	_, err = svc.Messages.Send(ctx, alice.Id, bob.Id, "", "")
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)

	// Media-only messages are fine.
	_, err = svc.Messages.Send(ctx, alice.Id, bob.Id, "", "https://cdn.example/clip.mp4")
	require.NoError(t, err)
}

func TestConversationOrderAndMarkRead(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestServices(store)

	alice := store.addUser("alice")
	bob := store.addUser("bob")
	carol := store.addUser("carol")

	_, err := svc.Messages.Send(ctx, alice.Id, bob.Id, "first", "")
	require.NoError(t, err)
	_, err = svc.Messages.Send(ctx, bob.Id, alice.Id, "second", "")
	require.NoError(t, err)
	_, err = svc.Messages.Send(ctx, alice.Id, carol.Id, "unrelated", "")
	require.NoError(t, err)

	conversation, err := svc.Messages.Conversation(ctx, alice.Id, bob.Id)
	require.NoError(t, err)
	require.Len(t, conversation, 2)
	assert.Equal(t, "first", conversation[0].Content)
	assert.Equal(t, "second", conversation[1].Content)

	// Bob reads: only alice→bob flips, the reverse direction stays unread.
	require.NoError(t, svc.Messages.MarkRead(ctx, bob.Id, alice.Id))

	conversation, err = svc.Messages.Conversation(ctx, alice.Id, bob.Id)
	require.NoError(t, err)
	for _, m := range conversation {
		if m.SenderId == alice.Id {
			assert.True(t, m.Read)
		} else {
			assert.False(t, m.Read)
		}
	}
}
