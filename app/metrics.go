package app

import (
	"time"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects prometheus metrics of a ledger. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	calls    *prometheus.CounterVec
	events   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the ledger metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "custody",
			Name:      "calls_total",
			Help:      "Calls dispatched to contracts, nested calls included.",
		}, []string{"kind", "method", "outcome"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "custody",
			Name:      "events_total",
			Help:      "Events emitted by committed mutations.",
		}, []string{"name"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "custody",
			Name:      "entry_duration_seconds",
			Help:      "Duration of ledger entry points, lock wait included.",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"entry"}),
	}
	reg.MustRegister(m.calls, m.events, m.duration)
	return m
}

func (m *Metrics) observeCall(kind, method string, err error) {
	if m == nil {
		return
	}
	if method == "" {
		method = "unknown"
	}
	m.calls.WithLabelValues(kind, method, outcome(err)).Inc()
}

func (m *Metrics) observeEvents(events []custody.Event) {
	if m == nil {
		return
	}
	for _, e := range events {
		m.events.WithLabelValues(e.Name).Inc()
	}
}

func (m *Metrics) observeDuration(entry string, start time.Time) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(entry).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.ErrPanic.Is(err):
		return "panic"
	default:
		return "error"
	}
}
