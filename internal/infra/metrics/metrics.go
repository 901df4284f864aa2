package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type Counters struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	ScanPages  prometheus.Counter
}

// NewCounters creates the payment operation collectors and registers them
// on reg. A nil reg leaves them unregistered.
func NewCounters(reg prometheus.Registerer) *Counters {
	c := &Counters{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_operations_total",
				Help: "Store operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payments_operation_duration_seconds",
				Help:    "Store operation latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		ScanPages: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "payments_scan_pages_total",
				Help: "Scan pages fetched while listing payments",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(c.Operations, c.Duration, c.ScanPages)
	}

	return c
}

func (c *Counters) Observe(operation string, started time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}

	c.Operations.WithLabelValues(operation, outcome).Inc()
	c.Duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (c *Counters) IncScanPage() {
	c.ScanPages.Inc()
}
