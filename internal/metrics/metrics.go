package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tick loop metrics
	TicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "window_comfort_ticks_total",
			Help: "Total number of evaluation ticks",
		},
	)

	TickSkips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "window_comfort_tick_skips_total",
			Help: "Ticks that ended without evaluation or dispatch",
		},
		[]string{"reason"}, // reason: sensor_error, temperature_invalid, nowcast
	)

	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "window_comfort_alerts_total",
			Help: "Total number of due alerts",
		},
		[]string{"kind"}, // kind: ABOVE, BELOW
	)

	// Notification metrics
	NotificationsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "window_comfort_notifications_sent_total",
			Help: "Total number of notifications dispatched",
		},
	)

	NotificationsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "window_comfort_notifications_skipped_total",
			Help: "Recipients skipped during dispatch",
		},
		[]string{"reason"}, // reason: cooldown, away, no_target
	)

	NotificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "window_comfort_notification_failures_total",
			Help: "Total number of failed notification dispatches",
		},
	)

	// Feedback metrics
	ActionsHandled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "window_comfort_actions_handled_total",
			Help: "Total number of ignore actions applied",
		},
	)
)
