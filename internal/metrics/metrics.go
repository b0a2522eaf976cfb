// Package metrics содержит счётчики Prometheus приложения.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ModerationEventsPublished — количество опубликованных модерационных событий.
	ModerationEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portainfo_moderation_events_published_total",
		Help: "Number of moderation events published to the broker.",
	}, []string{"type"})

	// ModerationEventsConsumed — количество обработанных воркером событий.
	ModerationEventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portainfo_moderation_events_consumed_total",
		Help: "Number of moderation events consumed by the notification worker.",
	}, []string{"type"})

	// SanctionsReconciled — количество блокировок, снятых фоновой сверкой.
	SanctionsReconciled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portainfo_sanctions_reconciled_total",
		Help: "Number of expired blocks cleared by the reconcile sweep.",
	})

	// NotificationsCreated — количество созданных уведомлений по типам.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portainfo_notifications_created_total",
		Help: "Number of notifications fanned out to user queues.",
	}, []string{"type"})
)
