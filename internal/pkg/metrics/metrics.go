package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const OutcomeOk = "ok"

// OperationMetrics counts ledger operations by outcome and tracks their
// end-to-end duration, settlement included.
type OperationMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func NewOperationMetrics(registerer prometheus.Registerer) *OperationMetrics {
	m := &OperationMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cidacake_operations_total",
			Help: "Ledger operations processed, labelled by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cidacake_operation_duration_seconds",
			Help:    "End-to-end duration of one ledger invocation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	registerer.MustRegister(m.operations, m.duration)

	return m
}

func (m *OperationMetrics) Observe(operation, outcome string, elapsed time.Duration) {
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
