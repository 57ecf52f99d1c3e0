package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is immutable once created except for the read flag.
type Message struct {
	Id         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SenderId   primitive.ObjectID `json:"senderId" bson:"senderId"`
	ReceiverId primitive.ObjectID `json:"receiverId" bson:"receiverId"`
	Content    string             `json:"content,omitempty" bson:"content,omitempty"`
	Media      string             `json:"media,omitempty" bson:"media,omitempty"`
	Read       bool               `json:"read" bson:"read"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}
