package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillhands/skillhands-backend/src/models"
)

func (m *Mongo) InsertMessage(ctx context.Context, msg *models.Message) error {
	_, err := m.messages().InsertOne(ctx, msg)
	return err
}

func (m *Mongo) Conversation(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"senderId": a, "receiverId": b},
			{"senderId": b, "receiverId": a},
		},
	}
	opts := options.Find().SetSort(bson.M{"createdAt": 1})

	cursor, err := m.messages().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (m *Mongo) MarkMessagesRead(ctx context.Context, reader, from primitive.ObjectID) error {
	_, err := m.messages().UpdateMany(
		ctx,
		bson.M{"senderId": from, "receiverId": reader, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}
