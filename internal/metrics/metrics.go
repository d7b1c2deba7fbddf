// Package metrics holds the process-wide Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "travis"

var (
	IntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Dispatched utterances by resolved intent kind.",
		},
		[]string{"kind"},
	)

	InterpreterDecodeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interpreter_decode_total",
			Help:      "Fallback interpreter results by decode outcome.",
		},
		[]string{"outcome"},
	)

	SerialSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "serial_sends_total",
			Help:      "Lines sent to the microcontroller by result.",
		},
		[]string{"result"},
	)

	RemindersDeliveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_delivered_total",
			Help:      "Reminders handed to the delivery callback.",
		},
	)

	CalendarSyncRemindersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calendar_sync_reminders_total",
			Help:      "Reminders synthesized from calendar events, by kind (before, start).",
		},
		[]string{"kind"},
	)
)

// SendResult labels a serial send outcome.
func SendResult(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
