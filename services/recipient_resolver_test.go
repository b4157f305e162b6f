package services

import (
	"context"
	"errors"
	"testing"

	"trungminh/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecipientResolver_Resolve(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	resolver := NewRecipientResolver(f.directory)

	tests := []struct {
		name   string
		labels []string
		want   []primitive.ObjectID
	}{
		{
			name:   "all members",
			labels: []string{models.AllMembersLabel},
			want:   f.users,
		},
		{
			name:   "department skips unlinked personal records",
			labels: []string{deptCouncil},
			want:   []primitive.ObjectID{f.users[0], f.users[1]},
		},
		{
			name:   "overlapping departments keep first occurrence",
			labels: []string{deptCouncil, deptMusic},
			want:   []primitive.ObjectID{f.users[0], f.users[1], f.users[2]},
		},
		{
			name:   "all members plus department does not duplicate",
			labels: []string{deptMusic, models.AllMembersLabel},
			want:   []primitive.ObjectID{f.users[1], f.users[2], f.users[0], f.users[3], f.users[4]},
		},
		{
			name:   "label is trimmed",
			labels: []string{"  " + deptMusic + " "},
			want:   []primitive.ObjectID{f.users[1], f.users[2]},
		},
		{
			name:   "unknown department",
			labels: []string{"Ban Không Tồn Tại"},
			want:   nil,
		},
		{
			name:   "empty label contributes nothing",
			labels: []string{""},
			want:   nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolver.Resolve(context.Background(), tt.labels)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Resolve() returned %d ids, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Resolve()[%d] = %s, want %s", i, got[i].Hex(), tt.want[i].Hex())
				}
			}
		})
	}
}

func TestRecipientResolver_DirectoryFailure(t *testing.T) {
	t.Parallel()

	resolver := NewRecipientResolver(failingDirectory{})

	for _, label := range []string{models.AllMembersLabel, deptCouncil} {
		_, err := resolver.Resolve(context.Background(), []string{label})
		if !errors.Is(err, ErrDependency) {
			t.Errorf("Resolve(%q) error = %v, want ErrDependency", label, err)
		}
	}
}
