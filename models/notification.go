package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeEvent  NotificationType = "event"
	NotificationTypeSystem NotificationType = "system"
	NotificationTypeChat   NotificationType = "chat"
	NotificationTypeFamily NotificationType = "family"
	NotificationTypeMedia  NotificationType = "media"
	NotificationTypeOther  NotificationType = "other"
)

// NotificationTypes lists every accepted type tag.
var NotificationTypes = []NotificationType{
	NotificationTypeEvent,
	NotificationTypeSystem,
	NotificationTypeChat,
	NotificationTypeFamily,
	NotificationTypeMedia,
	NotificationTypeOther,
}

// ParseNotificationType returns the matching type, defaulting to "system" for empty input.
func ParseNotificationType(s string) (NotificationType, bool) {
	if s == "" {
		return NotificationTypeSystem, true
	}
	for _, t := range NotificationTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// RecipientState is the read state of one recipient, embedded in a Notification.
type RecipientState struct {
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	IsRead bool               `bson:"isRead" json:"isRead"`
	ReadAt *time.Time         `bson:"readAt,omitempty" json:"readAt,omitempty"`
}

// Notification is broadcast once to a resolved recipient list. Each recipient
// tracks its own read state inside the same document.
type Notification struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Message      string             `bson:"message" json:"message"`
	Type         NotificationType   `bson:"type" json:"type"`
	Link         string             `bson:"link,omitempty" json:"link,omitempty"`
	ThumbnailURL string             `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	TargetGroups []string           `bson:"targetGroups" json:"targetGroups"`
	Recipients   []RecipientState   `bson:"recipients" json:"recipients"`
	CreatedBy    primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// Recipient returns the embedded state for userID, if present.
func (n *Notification) Recipient(userID primitive.ObjectID) (*RecipientState, bool) {
	for i := range n.Recipients {
		if n.Recipients[i].UserID == userID {
			return &n.Recipients[i], true
		}
	}
	return nil, false
}

func (n *Notification) ReadCount() int {
	count := 0
	for _, r := range n.Recipients {
		if r.IsRead {
			count++
		}
	}
	return count
}
