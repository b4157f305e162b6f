package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityLog struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID     `bson:"userId" json:"userId"`
	Action       string                 `bson:"action" json:"action"` // "notification.create", "notification.delete"
	ResourceType string                 `bson:"resourceType" json:"resourceType"`
	ResourceID   string                 `bson:"resourceId" json:"resourceId"`
	Details      map[string]interface{} `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt    time.Time              `bson:"createdAt" json:"createdAt"`
}
