package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	Id            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title         string               `json:"title" bson:"title"`
	Description   string               `json:"description" bson:"description"`
	Images        []string             `json:"images" bson:"images"`
	Video         string               `json:"video,omitempty" bson:"video,omitempty"`
	UserId        primitive.ObjectID   `json:"userId" bson:"userId"`
	Likes         []primitive.ObjectID `json:"likes" bson:"likes"`
	SavedBy       []primitive.ObjectID `json:"savedBy" bson:"savedBy"`
	Comments      []Comment            `json:"comments" bson:"comments"`
	AverageRating float64              `json:"averageRating" bson:"averageRating"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Comment is embedded in its post and owned by it. Name and avatar are
// denormalized from the commenting user at write time.
type Comment struct {
	Id        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserId    primitive.ObjectID `json:"userId" bson:"userId"`
	Text      string             `json:"text" bson:"text"`
	Name      string             `json:"name" bson:"name"`
	Avatar    string             `json:"avatar" bson:"avatar"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// PostDto is a post resolved for the client: owner display fields plus
// derived counters.
type PostDto struct {
	Post
	Author        UserDto `json:"author"`
	LikesCount    int     `json:"likesCount"`
	SavedCount    int     `json:"savedCount"`
	CommentsCount int     `json:"commentsCount"`
}

// PostPreview is the minimal post projection embedded in notifications.
type PostPreview struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Title string             `json:"title" bson:"title"`
}
