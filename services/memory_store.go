package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"trungminh/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryNotificationRepository is an in-process NotificationRepository with
// the same single-document atomicity as the MongoDB one. Used by tests and
// local runs without a database.
type MemoryNotificationRepository struct {
	mu            sync.RWMutex
	notifications map[primitive.ObjectID]*models.Notification
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{notifications: make(map[primitive.ObjectID]*models.Notification)}
}

func cloneNotification(n *models.Notification) models.Notification {
	c := *n
	c.TargetGroups = append([]string(nil), n.TargetGroups...)
	c.Recipients = make([]models.RecipientState, len(n.Recipients))
	for i, r := range n.Recipients {
		c.Recipients[i] = r
		if r.ReadAt != nil {
			t := *r.ReadAt
			c.Recipients[i].ReadAt = &t
		}
	}
	return c
}

func (r *MemoryNotificationRepository) Insert(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	c := cloneNotification(n)
	r.notifications[n.ID] = &c
	return nil
}

// Len reports how many documents are stored.
func (r *MemoryNotificationRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notifications)
}

// Get returns a copy of the stored document regardless of recipients.
func (r *MemoryNotificationRepository) Get(id primitive.ObjectID) (models.Notification, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[id]
	if !ok {
		return models.Notification{}, false
	}
	return cloneNotification(n), true
}

func (r *MemoryNotificationRepository) sorted(match func(*models.Notification) bool) []*models.Notification {
	var out []*models.Notification
	for _, n := range r.notifications {
		if match(n) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out
}

func (r *MemoryNotificationRepository) list(match func(*models.Notification) bool, limit int64) []models.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.sorted(match)
	if limit > 0 && int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	out := make([]models.Notification, 0, len(matched))
	for _, n := range matched {
		out = append(out, cloneNotification(n))
	}
	return out
}

func (r *MemoryNotificationRepository) ListRecent(_ context.Context, limit int64) ([]models.Notification, error) {
	return r.list(func(*models.Notification) bool { return true }, limit), nil
}

func (r *MemoryNotificationRepository) ListByRecipient(_ context.Context, userID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	return r.list(func(n *models.Notification) bool {
		_, ok := n.Recipient(userID)
		return ok
	}, limit), nil
}

func hasUnread(n *models.Notification, userID primitive.ObjectID) bool {
	state, ok := n.Recipient(userID)
	return ok && !state.IsRead
}

func (r *MemoryNotificationRepository) CountUnreadByRecipient(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, n := range r.notifications {
		if hasUnread(n, userID) {
			count++
		}
	}
	return count, nil
}

func (r *MemoryNotificationRepository) ListUnreadIDsByRecipient(_ context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []primitive.ObjectID
	for _, n := range r.sorted(func(n *models.Notification) bool { return hasUnread(n, userID) }) {
		ids = append(ids, n.ID)
	}
	return ids, nil
}

func (r *MemoryNotificationRepository) FindByRecipient(_ context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, nil
	}
	if _, ok := n.Recipient(userID); !ok {
		return nil, nil
	}
	c := cloneNotification(n)
	return &c, nil
}

func (r *MemoryNotificationRepository) MarkRecipientRead(_ context.Context, id, userID primitive.ObjectID, readAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok {
		return false, nil
	}
	state, ok := n.Recipient(userID)
	if !ok || state.IsRead {
		return false, nil
	}
	state.IsRead = true
	state.ReadAt = &readAt
	return true, nil
}

func (r *MemoryNotificationRepository) PullRecipient(_ context.Context, id, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || len(n.Recipients) < 2 {
		return false, nil
	}
	kept := n.Recipients[:0]
	removed := false
	for _, rs := range n.Recipients {
		if rs.UserID == userID {
			removed = true
			continue
		}
		kept = append(kept, rs)
	}
	n.Recipients = kept
	return removed, nil
}

func (r *MemoryNotificationRepository) DeleteByRecipient(_ context.Context, id, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok {
		return false, nil
	}
	if _, ok := n.Recipient(userID); !ok {
		return false, nil
	}
	delete(r.notifications, id)
	return true, nil
}

func (r *MemoryNotificationRepository) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[id]; !ok {
		return false, nil
	}
	delete(r.notifications, id)
	return true, nil
}

func (r *MemoryNotificationRepository) ScanRecipients(_ context.Context, fn func(recipients []models.RecipientState)) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.notifications {
		fn(cloneNotification(n).Recipients)
	}
	return nil
}

// MemoryDirectory is a fixed Directory built from users and personal records.
type MemoryDirectory struct {
	mu        sync.RWMutex
	users     []models.User
	personals []models.Personal
}

func NewMemoryDirectory(users []models.User, personals []models.Personal) *MemoryDirectory {
	return &MemoryDirectory{users: users, personals: personals}
}

func (d *MemoryDirectory) AddUser(u models.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = append(d.users, u)
}

func (d *MemoryDirectory) AddPersonal(p models.Personal) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.personals = append(d.personals, p)
}

func (d *MemoryDirectory) AllUserIDs(_ context.Context) ([]primitive.ObjectID, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]primitive.ObjectID, 0, len(d.users))
	for _, u := range d.users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (d *MemoryDirectory) DepartmentUserIDs(_ context.Context, department string) ([]primitive.ObjectID, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var ids []primitive.ObjectID
	for _, p := range d.personals {
		if p.Department == department && p.UserID != nil {
			ids = append(ids, *p.UserID)
		}
	}
	return ids, nil
}
