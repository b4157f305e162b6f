// Package metrics holds the Prometheus collectors for the notification service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of notifications created",
		},
		[]string{"type"},
	)

	RecipientsFannedOut = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_recipients_fanned_out_total",
			Help: "Total number of recipient entries written at creation time",
		},
	)

	CreateRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_create_rejected_total",
			Help: "Notification creations rejected before persistence",
		},
		[]string{"reason"}, // "validation", "no_recipients"
	)

	ReadTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_read_transitions_total",
			Help: "Recipient entries moved from unread to read",
		},
		[]string{"source"}, // "single", "all"
	)

	MarkAllReadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_mark_all_read_failures_total",
			Help: "Per-document failures skipped during mark-all-read sweeps",
		},
	)

	Deletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_deletions_total",
			Help: "Notification deletions by outcome",
		},
		[]string{"outcome"}, // "fully_deleted", "recipient_removed"
	)

	RealtimeSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_subscribers",
			Help: "Open realtime subscriptions",
		},
	)

	// Stats snapshot, refreshed by the stats job.
	StatsNotifications = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_stats_notifications",
			Help: "Number of stored notifications at the last stats refresh",
		},
	)

	StatsRecipients = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "notification_stats_recipients",
			Help: "Recipient entries at the last stats refresh",
		},
		[]string{"state"}, // "read", "unread"
	)

	StatsReadRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_stats_read_rate_percent",
			Help: "Read rate in percent at the last stats refresh",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
