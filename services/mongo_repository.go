package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trungminh/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const NotificationsCollection = "notifications"

// MongoNotificationRepository stores each notification as one document with
// the recipient states embedded, so every per-recipient change is a single
// document update.
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection(NotificationsCollection)}
}

// EnsureIndexes creates the indexes backing the admin and per-user listings.
func (r *MongoNotificationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
		{
			Keys:    bson.D{{Key: "recipients.userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("recipient_createdAt"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}
	return nil
}

func (r *MongoNotificationRepository) Insert(ctx context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *MongoNotificationRepository) ListRecent(ctx context.Context, limit int64) ([]models.Notification, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *MongoNotificationRepository) ListByRecipient(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	return r.find(ctx, bson.M{"recipients.userId": userID}, limit)
}

func (r *MongoNotificationRepository) find(ctx context.Context, filter bson.M, limit int64) ([]models.Notification, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func unreadFilter(userID primitive.ObjectID) bson.M {
	return bson.M{
		"recipients": bson.M{
			"$elemMatch": bson.M{"userId": userID, "isRead": false},
		},
	}
}

func (r *MongoNotificationRepository) CountUnreadByRecipient(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, unreadFilter(userID))
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *MongoNotificationRepository) ListUnreadIDsByRecipient(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.collection.Find(ctx, unreadFilter(userID), options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unread notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode unread notifications: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (r *MongoNotificationRepository) FindByRecipient(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	var notification models.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "recipients.userId": userID}).Decode(&notification)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notification: %w", err)
	}
	return &notification, nil
}

// MarkRecipientRead only matches an unread entry, so readAt is written once.
func (r *MongoNotificationRepository) MarkRecipientRead(ctx context.Context, id, userID primitive.ObjectID, readAt time.Time) (bool, error) {
	filter := unreadFilter(userID)
	filter["_id"] = id

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{
			"recipients.$.isRead": true,
			"recipients.$.readAt": readAt,
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

// PullRecipient requires a second array element to exist, which keeps the
// recipient list non-empty.
func (r *MongoNotificationRepository) PullRecipient(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id":               id,
		"recipients.userId": userID,
		"recipients.1":      bson.M{"$exists": true},
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$pull": bson.M{"recipients": bson.M{"userId": userID}},
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove recipient: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

func (r *MongoNotificationRepository) DeleteByRecipient(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "recipients.userId": userID})
	if err != nil {
		return false, fmt.Errorf("failed to delete notification: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *MongoNotificationRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete notification: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *MongoNotificationRepository) ScanRecipients(ctx context.Context, fn func(recipients []models.RecipientState)) error {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"recipients": 1}))
	if err != nil {
		return fmt.Errorf("failed to scan notifications: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc struct {
			Recipients []models.RecipientState `bson:"recipients"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return fmt.Errorf("failed to decode notification recipients: %w", err)
		}
		fn(doc.Recipients)
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("failed to scan notifications: %w", err)
	}
	return nil
}
