package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the claims module.
// Tracks submissions, decisions by outcome, and critical path durations.
type Metrics struct {
	ClaimsSubmitted prometheus.Counter
	ClaimsProcessed *prometheus.CounterVec
	SubmitDuration  prometheus.Histogram
	ProcessDuration prometheus.Histogram
}

// New creates a new Metrics instance with all claims module metrics registered.
func New() *Metrics {
	return &Metrics{
		ClaimsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vitacare_claims_submitted_total",
			Help: "Total number of claims submitted",
		}),
		ClaimsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vitacare_claims_processed_total",
			Help: "Total number of claims settled, labelled by outcome",
		}, []string{"outcome"}),
		SubmitDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vitacare_claim_submit_duration_seconds",
			Help:    "Duration of claim submission operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ProcessDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vitacare_claim_process_duration_seconds",
			Help:    "Duration of claim decision operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementSubmitted records a successful claim submission.
func (m *Metrics) IncrementSubmitted() {
	m.ClaimsSubmitted.Inc()
}

// IncrementProcessed records a settled claim by outcome.
func (m *Metrics) IncrementProcessed(outcome string) {
	m.ClaimsProcessed.WithLabelValues(outcome).Inc()
}

// ObserveSubmit records the duration of a Submit operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSubmit(start time.Time) {
	m.SubmitDuration.Observe(time.Since(start).Seconds())
}

// ObserveProcess records the duration of a Process operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveProcess(start time.Time) {
	m.ProcessDuration.Observe(time.Since(start).Seconds())
}
