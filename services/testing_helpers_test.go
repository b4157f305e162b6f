package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trungminh/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	deptCouncil = "Ban Trị Sự"
	deptMusic   = "Ban Nhạc Lễ"
)

type recordedEvent struct {
	UserID string
	Type   string
	Data   interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Notify(userID string, eventType string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{UserID: userID, Type: eventType, Data: data})
}

func (p *recordingPublisher) ofType(eventType string) []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []recordedEvent
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type recordingActivity struct {
	mu      sync.Mutex
	entries []models.ActivityLog
}

func (a *recordingActivity) Log(_ context.Context, entry models.ActivityLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

type failingDirectory struct{}

func (failingDirectory) AllUserIDs(context.Context) ([]primitive.ObjectID, error) {
	return nil, errors.New("connection refused")
}

func (failingDirectory) DepartmentUserIDs(context.Context, string) ([]primitive.ObjectID, error) {
	return nil, errors.New("connection refused")
}

// flakyRepository fails MarkRecipientRead for one document.
type flakyRepository struct {
	*MemoryNotificationRepository
	failMarkFor primitive.ObjectID
}

func (f *flakyRepository) MarkRecipientRead(ctx context.Context, id, userID primitive.ObjectID, readAt time.Time) (bool, error) {
	if id == f.failMarkFor {
		return false, errors.New("write conflict")
	}
	return f.MemoryNotificationRepository.MarkRecipientRead(ctx, id, userID, readAt)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	repo      *MemoryNotificationRepository
	directory *MemoryDirectory
	service   *NotificationService
	publisher *recordingPublisher
	activity  *recordingActivity
	clock     *testClock
	admin     primitive.ObjectID
	// users[0..4] are members; users[0] and users[1] are in deptCouncil,
	// users[1] and users[2] are in deptMusic.
	users []primitive.ObjectID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:      NewMemoryNotificationRepository(),
		publisher: &recordingPublisher{},
		activity:  &recordingActivity{},
		clock:     &testClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
		admin:     primitive.NewObjectID(),
	}

	var users []models.User
	for i := 0; i < 5; i++ {
		id := primitive.NewObjectID()
		f.users = append(f.users, id)
		users = append(users, models.User{ID: id, Role: "member"})
	}

	personals := []models.Personal{
		{ID: primitive.NewObjectID(), FullName: "Nguyễn Văn An", Department: deptCouncil, UserID: &f.users[0]},
		{ID: primitive.NewObjectID(), FullName: "Trần Thị Bình", Department: deptCouncil, UserID: &f.users[1]},
		{ID: primitive.NewObjectID(), FullName: "Lê Văn Cường", Department: deptCouncil},
		{ID: primitive.NewObjectID(), FullName: "Trần Thị Bình", Department: deptMusic, UserID: &f.users[1]},
		{ID: primitive.NewObjectID(), FullName: "Phạm Thị Dung", Department: deptMusic, UserID: &f.users[2]},
	}
	f.directory = NewMemoryDirectory(users, personals)

	f.service = NewNotificationService(f.repo, NewRecipientResolver(f.directory), f.publisher, f.activity)
	f.service.now = f.clock.Now
	return f
}

func (f *fixture) create(t *testing.T, targets ...string) *models.Notification {
	t.Helper()

	f.clock.Advance(time.Minute)
	n, err := f.service.Create(context.Background(), CreateNotificationInput{
		Title:        "Lễ Vía Đức Chí Tôn",
		Message:      "Kính mời toàn đạo tham dự lễ.",
		TargetGroups: targets,
	}, f.admin)
	if err != nil {
		t.Fatalf("Create(%v) error = %v", targets, err)
	}
	return n
}
