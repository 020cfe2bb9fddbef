package fluentsql

import (
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for executed statements.
type Metrics struct {
	statements *prometheus.CounterVec   // fluentsql_statements_total
	duration   *prometheus.HistogramVec // fluentsql_statement_duration_seconds
}

// NewMetrics creates the collectors and registers them with reg. When reg
// already holds collectors with the same names they are reused. A nil reg
// leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		statements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fluentsql_statements_total",
				Help: "Total number of executed statements, partitioned by kind and status.",
			},
			[]string{"kind", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fluentsql_statement_duration_seconds",
				Help:    "Statement execution time in seconds, partitioned by kind.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
	if reg == nil {
		return m
	}
	m.statements = register(reg, m.statements)
	m.duration = register(reg, m.duration)
	return m
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

// observe is a no-op on a nil receiver.
func (m *Metrics) observe(kind Kind, dur time.Duration, err error) {
	if m == nil {
		return
	}
	label := kindLabel(kind)
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.statements.WithLabelValues(label, status).Inc()
	m.duration.WithLabelValues(label).Observe(dur.Seconds())
}

func kindLabel(k Kind) string {
	if k == KindUnset {
		return "other"
	}
	return strings.ToLower(k.String())
}
