package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillhands/skillhands-backend/src/models"
)

func (m *Mongo) FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := m.users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (m *Mongo) UserDisplay(ctx context.Context, id primitive.ObjectID) (*models.UserDto, error) {
	var dto models.UserDto
	err := m.users().FindOne(
		ctx,
		bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{
			"name":       1,
			"profilePic": 1,
			"title":      1,
		}),
	).Decode(&dto)
	if err != nil {
		return nil, translate(err)
	}
	return &dto, nil
}

func (m *Mongo) AddRequestEdge(ctx context.Context, sender, recipient primitive.ObjectID) error {
	_, err := m.users().UpdateOne(
		ctx,
		bson.M{"_id": sender},
		bson.M{"$addToSet": bson.M{"connectionRequestsSent": recipient}},
	)
	if err != nil {
		return err
	}

	_, err = m.users().UpdateOne(
		ctx,
		bson.M{"_id": recipient},
		bson.M{"$addToSet": bson.M{"connectionRequestsReceived": sender}},
	)
	if err != nil {
		// Roll the first write back so no half-pending pair survives.
		m.users().UpdateOne(ctx, bson.M{"_id": sender},
			bson.M{"$pull": bson.M{"connectionRequestsSent": recipient}})
		return err
	}
	return nil
}

func (m *Mongo) PullRequestEdge(ctx context.Context, sender, recipient primitive.ObjectID) error {
	_, err := m.users().UpdateOne(
		ctx,
		bson.M{"_id": sender},
		bson.M{"$pull": bson.M{"connectionRequestsSent": recipient}},
	)
	if err != nil {
		return err
	}

	_, err = m.users().UpdateOne(
		ctx,
		bson.M{"_id": recipient},
		bson.M{"$pull": bson.M{"connectionRequestsReceived": sender}},
	)
	return err
}

func (m *Mongo) AddFollowEdge(ctx context.Context, follower, followed primitive.ObjectID) error {
	_, err := m.users().UpdateOne(
		ctx,
		bson.M{"_id": follower},
		bson.M{"$addToSet": bson.M{"following": followed}},
	)
	if err != nil {
		return err
	}

	_, err = m.users().UpdateOne(
		ctx,
		bson.M{"_id": followed},
		bson.M{"$addToSet": bson.M{"followers": follower}},
	)
	if err != nil {
		m.users().UpdateOne(ctx, bson.M{"_id": follower},
			bson.M{"$pull": bson.M{"following": followed}})
		return err
	}
	return nil
}

func (m *Mongo) RemoveFollowEdge(ctx context.Context, follower, followed primitive.ObjectID) error {
	_, err := m.users().UpdateOne(
		ctx,
		bson.M{"_id": follower},
		bson.M{"$pull": bson.M{"following": followed}},
	)
	if err != nil {
		return err
	}

	_, err = m.users().UpdateOne(
		ctx,
		bson.M{"_id": followed},
		bson.M{"$pull": bson.M{"followers": follower}},
	)
	return err
}

func (m *Mongo) SetOverallRating(ctx context.Context, userID primitive.ObjectID, rating models.OverallRating) error {
	_, err := m.users().UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"overallRating": rating,
			"updatedAt":     time.Now(),
		}},
	)
	return err
}
