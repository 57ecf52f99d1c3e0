package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillhands/skillhands-backend/src/models"
)

func (m *Mongo) FindPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := m.posts().FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (m *Mongo) PostPreview(ctx context.Context, id primitive.ObjectID) (*models.PostPreview, error) {
	var preview models.PostPreview
	err := m.posts().FindOne(
		ctx,
		bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"title": 1}),
	).Decode(&preview)
	if err != nil {
		return nil, translate(err)
	}
	return &preview, nil
}

func (m *Mongo) SetAverageRating(ctx context.Context, postID primitive.ObjectID, average float64) error {
	_, err := m.posts().UpdateOne(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$set": bson.M{
			"averageRating": average,
			"updatedAt":     time.Now(),
		}},
	)
	return err
}
