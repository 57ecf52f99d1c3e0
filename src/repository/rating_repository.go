package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillhands/skillhands-backend/src/models"
)

// UpsertRating overwrites the reviewer's existing rating on the post or
// inserts a new one. The unique (postId, reviewerId) index backs the upsert,
// so two concurrent submissions by the same reviewer cannot duplicate.
func (m *Mongo) UpsertRating(ctx context.Context, rating *models.Rating) (bool, error) {
	now := time.Now()

	filter := bson.M{
		"postId":     rating.PostId,
		"reviewerId": rating.ReviewerId,
	}
	update := bson.M{
		"$set": bson.M{
			"value":     rating.Value,
			"feedback":  rating.Feedback,
			"ownerId":   rating.OwnerId,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"postId":     rating.PostId,
			"reviewerId": rating.ReviewerId,
			"createdAt":  now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored models.Rating
	if err := m.ratings().FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return false, err
	}

	// On insert both timestamps come from the same write; an overwrite only
	// touches updatedAt.
	created := stored.CreatedAt.Equal(stored.UpdatedAt)
	*rating = stored
	return created, nil
}

// PostStats computes the post's rating count and raw mean in the database.
func (m *Mongo) PostStats(ctx context.Context, postID primitive.ObjectID) (models.PostRatingStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"postId": postID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"count":   bson.M{"$sum": 1},
			"average": bson.M{"$avg": "$value"},
		}}},
	}

	var stats models.PostRatingStats
	if err := m.aggregateOne(ctx, m.ratings(), pipeline, &stats); err != nil {
		return models.PostRatingStats{}, err
	}
	return stats, nil
}

// OwnerStats groups every rating across all of the owner's posts into the
// raw overall aggregate: counts, sum and the per-value distribution.
func (m *Mongo) OwnerStats(ctx context.Context, ownerID primitive.ObjectID) (models.OwnerRatingStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ownerId": ownerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalRatings": bson.M{"$sum": 1},
			"sum":          bson.M{"$sum": "$value"},
			"totalReviews": bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$ne": bson.A{"$feedback", ""}}, 1, 0}}},
			"count1":       bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$value", 1}}, 1, 0}}},
			"count2":       bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$value", 2}}, 1, 0}}},
			"count3":       bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$value", 3}}, 1, 0}}},
			"count4":       bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$value", 4}}, 1, 0}}},
			"count5":       bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$value", 5}}, 1, 0}}},
		}}},
	}

	var stats models.OwnerRatingStats
	if err := m.aggregateOne(ctx, m.ratings(), pipeline, &stats); err != nil {
		return models.OwnerRatingStats{}, err
	}
	return stats, nil
}

func (m *Mongo) DeleteRatingsByPost(ctx context.Context, postID primitive.ObjectID) error {
	_, err := m.ratings().DeleteMany(ctx, bson.M{"postId": postID})
	return err
}

// aggregateOne runs a pipeline expected to yield at most one document. No
// document leaves out untouched, so zero-rating users decode to all zeros.
func (m *Mongo) aggregateOne(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		return cursor.Decode(out)
	}
	return cursor.Err()
}
