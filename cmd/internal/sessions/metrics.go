package sessions

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the engine's prometheus collectors. A nil *Metrics is
// valid everywhere and disables instrumentation.
type Metrics struct {
	active      prometheus.Gauge
	transitions *prometheus.CounterVec
	conflicts   prometheus.Counter
	ticks       prometheus.Counter
	tickSeconds prometheus.Histogram
}

// NewMetrics builds and registers the engine collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warden",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Number of sessions currently in lifecycle status active.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "warden",
			Subsystem: "sessions",
			Name:      "transitions_total",
			Help:      "Lifecycle events by action (created, revoked, expired, refreshed, executed).",
		}, []string{"action"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warden",
			Subsystem: "sessions",
			Name:      "command_conflicts_total",
			Help:      "Commands rejected because another command was in flight for the same session.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warden",
			Subsystem: "scheduler",
			Name:      "ticks_total",
			Help:      "Expiry-evaluation ticks performed.",
		}),
		tickSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "warden",
			Subsystem: "scheduler",
			Name:      "tick_duration_seconds",
			Help:      "Duration of one expiry-evaluation tick.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.active, m.transitions, m.conflicts, m.ticks, m.tickSeconds)
	return m
}

func (m *Metrics) setActive(n int) {
	if m == nil {
		return
	}
	m.active.Set(float64(n))
}

func (m *Metrics) incTransition(action Action) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(action)).Inc()
}

func (m *Metrics) incConflict() {
	if m == nil {
		return
	}
	m.conflicts.Inc()
}

func (m *Metrics) observeTick(seconds float64) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.tickSeconds.Observe(seconds)
}
