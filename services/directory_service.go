package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DirectoryService reads user accounts and personal records from MongoDB.
type DirectoryService struct {
	userCollection     *mongo.Collection
	personalCollection *mongo.Collection
}

func NewDirectoryService(db *mongo.Database) *DirectoryService {
	return &DirectoryService{
		userCollection:     db.Collection("users"),
		personalCollection: db.Collection("personals"),
	}
}

func (s *DirectoryService) AllUserIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	cursor, err := s.userCollection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

// DepartmentUserIDs skips personal records without a linked account.
func (s *DirectoryService) DepartmentUserIDs(ctx context.Context, department string) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"department": department,
		"userId":     bson.M{"$exists": true, "$ne": nil},
	}

	cursor, err := s.personalCollection.Find(ctx, filter, options.Find().SetProjection(bson.M{"userId": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch personal records: %w", err)
	}
	defer cursor.Close(ctx)

	var personals []struct {
		UserID *primitive.ObjectID `bson:"userId"`
	}
	if err := cursor.All(ctx, &personals); err != nil {
		return nil, fmt.Errorf("failed to decode personal records: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(personals))
	for _, p := range personals {
		if p.UserID == nil || p.UserID.IsZero() {
			continue
		}
		ids = append(ids, *p.UserID)
	}
	return ids, nil
}
