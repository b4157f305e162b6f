package services

import (
	"context"
	"fmt"
	"math"

	"trungminh/models"
)

type NotificationStatsResult struct {
	TotalNotifications int64   `json:"totalNotifications"`
	TotalRecipients    int64   `json:"totalRecipients"`
	ReadRecipients     int64   `json:"readRecipients"`
	UnreadRecipients   int64   `json:"unreadRecipients"`
	ReadRate           float64 `json:"readRate"`
}

// NotificationStats aggregates read state across every stored notification.
type NotificationStats struct {
	repo NotificationRepository
}

func NewNotificationStats(repo NotificationRepository) *NotificationStats {
	return &NotificationStats{repo: repo}
}

// Compute scans all notifications. ReadRate is a percentage rounded to two
// decimals, 0 when there are no recipients.
func (s *NotificationStats) Compute(ctx context.Context) (*NotificationStatsResult, error) {
	result := &NotificationStatsResult{}

	err := s.repo.ScanRecipients(ctx, func(recipients []models.RecipientState) {
		result.TotalNotifications++
		for _, r := range recipients {
			result.TotalRecipients++
			if r.IsRead {
				result.ReadRecipients++
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan notifications: %w", ErrDependency, err)
	}

	result.UnreadRecipients = result.TotalRecipients - result.ReadRecipients
	result.ReadRate = readRate(result.ReadRecipients, result.TotalRecipients)
	return result, nil
}

func readRate(read, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(read)/float64(total)*100*100) / 100
}
