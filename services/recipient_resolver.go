package services

import (
	"context"
	"fmt"

	"trungminh/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecipientResolver expands target group labels into user IDs.
type RecipientResolver struct {
	directory Directory
}

func NewRecipientResolver(directory Directory) *RecipientResolver {
	return &RecipientResolver{directory: directory}
}

// Resolve returns the union of the users addressed by labels, in discovery
// order with duplicates dropped after their first occurrence. Labels matching
// nobody contribute nothing; an empty result is not an error here.
func (r *RecipientResolver) Resolve(ctx context.Context, labels []string) ([]primitive.ObjectID, error) {
	seen := make(map[primitive.ObjectID]struct{})
	var resolved []primitive.ObjectID

	add := func(ids []primitive.ObjectID) {
		for _, id := range ids {
			if id.IsZero() {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			resolved = append(resolved, id)
		}
	}

	for _, group := range models.ParseTargetGroups(labels) {
		switch group.Kind {
		case models.TargetAllMembers:
			ids, err := r.directory.AllUserIDs(ctx)
			if err != nil {
				return nil, fmt.Errorf("%w: list all users: %w", ErrDependency, err)
			}
			add(ids)
		case models.TargetDepartment:
			if group.Department() == "" {
				continue
			}
			ids, err := r.directory.DepartmentUserIDs(ctx, group.Department())
			if err != nil {
				return nil, fmt.Errorf("%w: list department %q: %w", ErrDependency, group.Department(), err)
			}
			add(ids)
		}
	}

	return resolved, nil
}
