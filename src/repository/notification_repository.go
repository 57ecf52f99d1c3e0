package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillhands/skillhands-backend/src/models"
)

func (m *Mongo) InsertNotification(ctx context.Context, n *models.Notification) error {
	_, err := m.notifications().InsertOne(ctx, n)
	return err
}

// UpsertNotification keys on (recipientId, senderId, type) plus postId when
// the action targets a post. A repeat of the same action bumps the existing
// entry back to now and unread instead of inserting a duplicate.
func (m *Mongo) UpsertNotification(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	filter := bson.M{
		"recipientId": n.RecipientId,
		"senderId":    n.SenderId,
		"type":        n.Type,
	}
	if !n.PostId.IsZero() {
		filter["postId"] = n.PostId
	}

	update := bson.M{
		"$set": bson.M{
			"read":      false,
			"createdAt": n.CreatedAt,
			"updatedAt": n.UpdatedAt,
		},
		"$setOnInsert": filter,
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored models.Notification
	if err := m.notifications().FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (m *Mongo) DeleteConnectRequest(ctx context.Context, recipient, sender primitive.ObjectID) error {
	_, err := m.notifications().DeleteMany(ctx, bson.M{
		"recipientId": recipient,
		"senderId":    sender,
		"type":        models.NotificationTypeConnectRequest,
	})
	return err
}

func (m *Mongo) DeleteNotificationsByPost(ctx context.Context, postID primitive.ObjectID) error {
	_, err := m.notifications().DeleteMany(ctx, bson.M{"postId": postID})
	return err
}

func (m *Mongo) ListNotifications(ctx context.Context, recipient primitive.ObjectID, limit int64) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(limit)

	cursor, err := m.notifications().Find(ctx, bson.M{"recipientId": recipient}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (m *Mongo) MarkNotificationsRead(ctx context.Context, recipient primitive.ObjectID, ids []primitive.ObjectID) (int64, error) {
	result, err := m.notifications().UpdateMany(
		ctx,
		bson.M{"_id": bson.M{"$in": ids}, "recipientId": recipient},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
