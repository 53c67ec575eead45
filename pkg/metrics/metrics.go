package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine counters. Registered on the default registry so the promhttp
// listener in this package exposes them without extra wiring.
var (
	SubscriptionsAdvanced = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "subtrack",
		Name:      "subscriptions_advanced_total",
		Help:      "Subscriptions whose renewal date was advanced past now.",
	})

	RemindersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "subtrack",
		Name:      "reminders_created_total",
		Help:      "Reminders created, by reminder type.",
	}, []string{"type"})

	RemindersDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "subtrack",
		Name:      "reminders_dispatched_total",
		Help:      "Reminders delivered, by channel.",
	}, []string{"channel"})

	RemindersSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "subtrack",
		Name:      "reminders_suppressed_total",
		Help:      "Due reminders consumed without delivery because of user preferences.",
	})

	JobErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "subtrack",
		Name:      "job_errors_total",
		Help:      "Per-item failures inside batch passes, by job.",
	}, []string{"job"})
)
