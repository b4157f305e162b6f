package jobs

import (
	"context"
	"testing"
	"time"

	"trungminh/metrics"
	"trungminh/models"
	"trungminh/services"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStatsRefresher_RunOnce(t *testing.T) {
	repo := services.NewMemoryNotificationRepository()
	readAt := time.Now()
	_ = repo.Insert(context.Background(), &models.Notification{
		Title: "Lễ Rằm",
		Recipients: []models.RecipientState{
			{UserID: primitive.NewObjectID(), IsRead: true, ReadAt: &readAt},
			{UserID: primitive.NewObjectID()},
			{UserID: primitive.NewObjectID()},
			{UserID: primitive.NewObjectID()},
		},
	})

	refresher := NewStatsRefresher(services.NewNotificationStats(repo), time.Minute)
	result, err := refresher.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if result.TotalRecipients != 4 || result.ReadRate != 25 {
		t.Errorf("RunOnce() = %+v", result)
	}

	if got := testutil.ToFloat64(metrics.StatsNotifications); got != 1 {
		t.Errorf("notifications gauge = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.StatsRecipients.WithLabelValues("unread")); got != 3 {
		t.Errorf("unread gauge = %v, want 3", got)
	}
	if got := testutil.ToFloat64(metrics.StatsReadRate); got != 25 {
		t.Errorf("read rate gauge = %v, want 25", got)
	}
}

func TestStatsRefresher_StopsWithContext(t *testing.T) {
	refresher := NewStatsRefresher(services.NewNotificationStats(services.NewMemoryNotificationRepository()), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		refresher.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start() did not return after cancel")
	}
}
