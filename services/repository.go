package services

import (
	"context"
	"time"

	"trungminh/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationRepository persists notification documents. Every mutating
// method touches a single document and must be atomic for that document.
type NotificationRepository interface {
	// Insert stores n and assigns its ID when zero.
	Insert(ctx context.Context, n *models.Notification) error
	// ListRecent returns notifications newest first.
	ListRecent(ctx context.Context, limit int64) ([]models.Notification, error)
	// ListByRecipient returns notifications addressed to userID, newest first.
	ListByRecipient(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Notification, error)
	CountUnreadByRecipient(ctx context.Context, userID primitive.ObjectID) (int64, error)
	// ListUnreadIDsByRecipient returns the IDs of notifications holding an unread entry for userID.
	ListUnreadIDsByRecipient(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	// FindByRecipient returns the notification only if userID is one of its
	// recipients; (nil, nil) otherwise.
	FindByRecipient(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error)
	// MarkRecipientRead flips userID's entry to read. It reports false when
	// the entry was already read or does not exist.
	MarkRecipientRead(ctx context.Context, id, userID primitive.ObjectID, readAt time.Time) (bool, error)
	// PullRecipient removes userID's entry only while another recipient remains.
	PullRecipient(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
	// DeleteByRecipient deletes the document if userID is still a recipient.
	DeleteByRecipient(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	// ScanRecipients calls fn with the recipient list of every stored notification.
	ScanRecipients(ctx context.Context, fn func(recipients []models.RecipientState)) error
}

// Directory is the user/department lookup used to expand target groups.
type Directory interface {
	AllUserIDs(ctx context.Context) ([]primitive.ObjectID, error)
	// DepartmentUserIDs returns the accounts linked to personal records of department.
	DepartmentUserIDs(ctx context.Context, department string) ([]primitive.ObjectID, error)
}

// EventPublisher pushes realtime events to a user. Delivery is best effort.
type EventPublisher interface {
	Notify(userID string, eventType string, data interface{})
}

// ActivityLogger records audit entries without blocking the caller.
type ActivityLogger interface {
	Log(ctx context.Context, entry models.ActivityLog)
}
