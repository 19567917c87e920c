package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Closing metrics
	ClosingRuns     *prometheus.CounterVec
	ClosingDuration *prometheus.HistogramVec

	// Period metrics
	PeriodOperations *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Closing metrics
		ClosingRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contaledger_closing_runs_total",
				Help: "Total month-end closing runs by outcome",
			},
			[]string{"outcome"},
		),
		ClosingDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contaledger_closing_duration_seconds",
				Help:    "Duration of month-end closing runs",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),

		// Period metrics
		PeriodOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contaledger_period_operations_total",
				Help: "Total accounting period operations by type and outcome",
			},
			[]string{"operation", "outcome"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contaledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contaledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "contaledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
	}
}

// ObserveClosing implements usecase.Observer.
func (m *Metrics) ObserveClosing(outcome string, duration time.Duration) {
	m.ClosingRuns.WithLabelValues(outcome).Inc()
	m.ClosingDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObservePeriodOperation implements usecase.Observer.
func (m *Metrics) ObservePeriodOperation(operation, outcome string) {
	m.PeriodOperations.WithLabelValues(operation, outcome).Inc()
}
