package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOperationMetrics_Observe(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewPedanticRegistry()
	m := NewOperationMetrics(registry)

	m.Observe("sell", OutcomeOk, 5*time.Millisecond)
	m.Observe("sell", "transfer_failed", time.Millisecond)
	m.Observe("sell", OutcomeOk, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.operations.WithLabelValues("sell", OutcomeOk)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.operations.WithLabelValues("sell", "transfer_failed")))
}
