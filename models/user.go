package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Role      string             `bson:"role" json:"role"` // "admin" or "member"
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Personal is a member's directory record. Not every record has a login account.
type Personal struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName   string              `bson:"fullName" json:"fullName"`
	Department string              `bson:"department" json:"department"`
	UserID     *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
}
