package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CartMetrics records cart operation outcomes and event delivery failures.
type CartMetrics struct {
	operations    *prometheus.CounterVec
	totals        prometheus.Histogram
	eventFailures *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart operations by name and outcome.",
	}, []string{"operation", "outcome"})
	totals := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_total_amount",
		Help:    "Cart total amount after a successful write.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})
	eventFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_event_publish_failures_total",
		Help: "Cart events that could not be delivered, by event type.",
	}, []string{"event_type"})
	reg.MustRegister(operations, totals, eventFailures)
	return &CartMetrics{
		operations:    operations,
		totals:        totals,
		eventFailures: eventFailures,
	}
}

// ObserveOperation counts one cart operation with its outcome.
func (c *CartMetrics) ObserveOperation(operation string, err error) {
	if c == nil || c.operations == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.operations.WithLabelValues(normalizeLabel(operation), outcome).Inc()
}

// ObserveTotal records the cart total written by an operation.
func (c *CartMetrics) ObserveTotal(total decimal.Decimal) {
	if c == nil || c.totals == nil {
		return
	}
	c.totals.Observe(total.InexactFloat64())
}

// IncEventFailure increments the failed delivery counter for eventType.
func (c *CartMetrics) IncEventFailure(eventType string) {
	if c == nil || c.eventFailures == nil {
		return
	}
	c.eventFailures.WithLabelValues(normalizeLabel(eventType)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
