package achievements

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesEvaluated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cheevos",
			Subsystem: "session",
			Name:      "frames_evaluated_total",
			Help:      "Frames evaluated by active achievement sessions.",
		},
	)
	runtimeEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cheevos",
			Subsystem: "session",
			Name:      "runtime_events_total",
			Help:      "Events reported by the evaluation runtime.",
		},
		[]string{"event"},
	)
	registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cheevos",
			Subsystem: "session",
			Name:      "registrations_total",
			Help:      "Achievement definition registrations.",
		},
		[]string{"success"},
	)
	unlocksQueued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cheevos",
			Subsystem: "unlocks",
			Name:      "queued_total",
			Help:      "Unlocks queued for delivery to the host.",
		},
	)
	unlocksDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cheevos",
			Subsystem: "unlocks",
			Name:      "delivered_total",
			Help:      "Unlocks delivered to the host.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(framesEvaluated, runtimeEvents, registrations, unlocksQueued, unlocksDelivered)
	})
}

func RecordFrame() {
	RegisterMetrics()
	framesEvaluated.Inc()
}

func RecordEvent(event string) {
	RegisterMetrics()
	runtimeEvents.WithLabelValues(event).Inc()
}

func RecordRegistration(success bool) {
	RegisterMetrics()
	registrations.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func RecordUnlockQueued() {
	RegisterMetrics()
	unlocksQueued.Inc()
}

func RecordUnlocksDelivered(n int) {
	RegisterMetrics()
	unlocksDelivered.Add(float64(n))
}
