package jobs

import (
	"context"
	"time"

	"trungminh/metrics"
	"trungminh/services"
	"trungminh/utils"

	"github.com/rs/zerolog"
)

const statsRefreshTimeout = 2 * time.Minute

// StatsRefresher periodically publishes notification stats as Prometheus gauges.
type StatsRefresher struct {
	stats    *services.NotificationStats
	interval time.Duration
	logger   zerolog.Logger
}

func NewStatsRefresher(stats *services.NotificationStats, interval time.Duration) *StatsRefresher {
	return &StatsRefresher{
		stats:    stats,
		interval: interval,
		logger:   utils.WithComponent("stats_refresher"),
	}
}

// Start refreshes once immediately, then every interval until ctx is done.
func (sr *StatsRefresher) Start(ctx context.Context) {
	sr.logger.Info().Dur("interval", sr.interval).Msg("Starting stats refresher job")

	sr.refresh(ctx)

	ticker := time.NewTicker(sr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sr.logger.Info().Msg("Stats refresher stopped")
			return
		case <-ticker.C:
			sr.refresh(ctx)
		}
	}
}

func (sr *StatsRefresher) refresh(ctx context.Context) {
	if _, err := sr.RunOnce(ctx); err != nil {
		sr.logger.Error().Err(err).Msg("Failed to refresh notification stats")
	}
}

// RunOnce computes the stats and updates the gauges.
func (sr *StatsRefresher) RunOnce(ctx context.Context) (*services.NotificationStatsResult, error) {
	ctx, cancel := context.WithTimeout(ctx, statsRefreshTimeout)
	defer cancel()

	result, err := sr.stats.Compute(ctx)
	if err != nil {
		return nil, err
	}

	metrics.StatsNotifications.Set(float64(result.TotalNotifications))
	metrics.StatsRecipients.WithLabelValues("read").Set(float64(result.ReadRecipients))
	metrics.StatsRecipients.WithLabelValues("unread").Set(float64(result.UnreadRecipients))
	metrics.StatsReadRate.Set(result.ReadRate)

	sr.logger.Debug().
		Int64("notifications", result.TotalNotifications).
		Int64("recipients", result.TotalRecipients).
		Float64("read_rate", result.ReadRate).
		Msg("Notification stats refreshed")
	return result, nil
}
