package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating lives in its own collection with a unique index on
// (postId, reviewerId): a reviewer has exactly one rating per post and
// resubmitting overwrites it in place. OwnerId is denormalized from the post
// so the per-user aggregation pipeline can match without a lookup.
type Rating struct {
	Id         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PostId     primitive.ObjectID `json:"postId" bson:"postId"`
	ReviewerId primitive.ObjectID `json:"reviewerId" bson:"reviewerId"`
	OwnerId    primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	Value      int                `json:"value" bson:"value"`
	Feedback   string             `json:"feedback" bson:"feedback"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PostRatingStats is the per-post aggregate: raw mean plus count.
type PostRatingStats struct {
	Count   int     `bson:"count"`
	Average float64 `bson:"average"`
}

// OwnerRatingStats is the raw per-owner aggregate produced by the ratings
// pipeline, before rounding and clamping.
type OwnerRatingStats struct {
	TotalRatings int `bson:"totalRatings"`
	TotalReviews int `bson:"totalReviews"`
	Sum          int `bson:"sum"`
	Count1       int `bson:"count1"`
	Count2       int `bson:"count2"`
	Count3       int `bson:"count3"`
	Count4       int `bson:"count4"`
	Count5       int `bson:"count5"`
}
