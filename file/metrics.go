package file

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for read sessions.
type Metrics struct {
	StripesEvaluated prometheus.Counter
	StripesSkipped   prometheus.Counter
	BytesRead        prometheus.Counter
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	stripesEvaluated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "riff_reader_stripes_evaluated_total",
		Help: "Total stripes considered by the read planner",
	})

	stripesSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "riff_reader_stripes_skipped_total",
		Help: "Total stripes skipped by predicate pushdown",
	})

	bytesRead := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "riff_reader_bytes_read_total",
		Help: "Total compressed stripe bytes read from data files",
	})

	reg.MustRegister(stripesEvaluated, stripesSkipped, bytesRead)

	return &Metrics{
		StripesEvaluated: stripesEvaluated,
		StripesSkipped:   stripesSkipped,
		BytesRead:        bytesRead,
	}
}
