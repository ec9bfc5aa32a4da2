package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeOK            = "ok"
	outcomeInputError    = "input_error"
	outcomeInvalidUpload = "invalid_upload"
	outcomeRateLimited   = "rate_limited"
)

type serverMetrics struct {
	registry *prometheus.Registry
	reports  *prometheus.CounterVec
	feedRows prometheus.Histogram
	duration prometheus.Histogram
}

// newServerMetrics registers collectors on a private registry so handlers
// built in tests never collide on the global one.
func newServerMetrics() *serverMetrics {
	m := &serverMetrics{
		registry: prometheus.NewRegistry(),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "milkminder",
			Name:      "reports_total",
			Help:      "Uploaded workbooks processed, by outcome.",
		}, []string{"outcome"}),
		feedRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "milkminder",
			Name:      "feed_rows",
			Help:      "Feed table rows read per computed report.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 188},
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "milkminder",
			Name:      "report_duration_seconds",
			Help:      "Time spent decoding a workbook and computing its report.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(m.reports, m.feedRows, m.duration)
	return m
}

func (m *serverMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
