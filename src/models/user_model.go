package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	Id              primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name            string               `json:"name" bson:"name"`
	Email           string               `json:"email" bson:"email"`
	Password        string               `json:"password,omitempty" bson:"password"`
	ProfilePic      string               `json:"profilePic" bson:"profilePic"`
	CoverImage      string               `json:"coverImage" bson:"coverImage"`
	Title           string               `json:"title" bson:"title"`
	Phone           string               `json:"phone" bson:"phone"`
	WhatsappNo      string               `json:"whatsappNo" bson:"whatsappNo"`
	Skills          []string             `json:"skills" bson:"skills"`
	SkillCategories []string             `json:"skillCategories" bson:"skillCategories"`
	Location        Location             `json:"location" bson:"location"`
	Followers       []primitive.ObjectID `json:"followers" bson:"followers"`
	Following       []primitive.ObjectID `json:"following" bson:"following"`
	RequestsSent    []primitive.ObjectID `json:"connectionRequestsSent" bson:"connectionRequestsSent"`
	RequestsRecv    []primitive.ObjectID `json:"connectionRequestsReceived" bson:"connectionRequestsReceived"`
	OverallRating   OverallRating        `json:"overallRating" bson:"overallRating"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Location is a GeoJSON point plus the administrative names shown on
// profiles. Coordinates are [longitude, latitude], matching the 2dsphere
// index on the users collection.
type Location struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
	State       string    `json:"state,omitempty" bson:"state,omitempty"`
	District    string    `json:"district,omitempty" bson:"district,omitempty"`
	Town        string    `json:"town,omitempty" bson:"town,omitempty"`
}

// OverallRating is the user-level aggregate recomputed from every rating on
// every post the user owns. TotalRatings always equals the sum of the
// distribution counts; TotalReviews counts only ratings with feedback text.
type OverallRating struct {
	TotalRatings int            `json:"totalRatings" bson:"totalRatings"`
	TotalReviews int            `json:"totalReviews" bson:"totalReviews"`
	AverageScore float64        `json:"averageScore" bson:"averageScore"`
	Distribution map[string]int `json:"distribution" bson:"distribution"`
}

// ZeroOverallRating is the aggregate for a user with no ratings at all.
func ZeroOverallRating() OverallRating {
	return OverallRating{
		Distribution: map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0},
	}
}

// UserDto carries the minimal display fields embedded in feeds,
// notifications and connection listings.
type UserDto struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Name       string             `json:"name" bson:"name"`
	ProfilePic string             `json:"profilePic" bson:"profilePic"`
	Title      string             `json:"title,omitempty" bson:"title,omitempty"`
}

func (u *User) Dto() UserDto {
	return UserDto{
		ID:         u.Id,
		Name:       u.Name,
		ProfilePic: u.ProfilePic,
		Title:      u.Title,
	}
}
