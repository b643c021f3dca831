package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAuthMetrics_Observe(t *testing.T) {
	reg := NewRegistry()
	m := NewAuthMetrics(reg)

	m.Observe("login", OutcomeSuccess)
	m.Observe("login", OutcomeSuccess)
	m.Observe("login", OutcomeRejected)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("login", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("login", OutcomeRejected)))
}

func TestAuthMetrics_NilIsNoop(t *testing.T) {
	var m *AuthMetrics
	assert.NotPanics(t, func() { m.Observe("login", OutcomeError) })
}
