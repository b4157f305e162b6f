package services

import (
	"context"
	"time"

	"trungminh/models"
	"trungminh/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const activityLogTimeout = 5 * time.Second

// ActivityLogService writes audit entries in the background. A failed write
// is logged and otherwise ignored.
type ActivityLogService struct {
	collection *mongo.Collection
}

func NewActivityLogService(db *mongo.Database) *ActivityLogService {
	return &ActivityLogService{collection: db.Collection("activity_logs")}
}

func (s *ActivityLogService) Log(ctx context.Context, entry models.ActivityLog) {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	logger := utils.Ctx(ctx)

	go func() {
		// detached from the request so the write outlives it
		writeCtx, cancel := context.WithTimeout(context.Background(), activityLogTimeout)
		defer cancel()

		if _, err := s.collection.InsertOne(writeCtx, entry); err != nil {
			logger.Warn().Err(err).
				Str("action", entry.Action).
				Str("resource_id", entry.ResourceID).
				Msg("Failed to write activity log")
		}
	}()
}
