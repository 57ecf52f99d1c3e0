package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	Id          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RecipientId primitive.ObjectID `json:"recipientId" bson:"recipientId"`
	SenderId    primitive.ObjectID `json:"senderId" bson:"senderId"`
	Type        NotificationType   `json:"type" bson:"type"`
	PostId      primitive.ObjectID `json:"postId,omitempty" bson:"postId,omitempty"`
	Read        bool               `json:"read" bson:"read"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type NotificationType string

const (
	NotificationTypeLike           NotificationType = "like"
	NotificationTypeComment        NotificationType = "comment"
	NotificationTypeRating         NotificationType = "rating"
	NotificationTypeConnectRequest NotificationType = "connect_request"
	NotificationTypeConnectAccept  NotificationType = "connect_accept"
)

// NotificationDto is a notification with sender and post display fields
// resolved for the client.
type NotificationDto struct {
	Notification
	Sender *UserDto     `json:"sender,omitempty"`
	Post   *PostPreview `json:"post,omitempty"`
}
