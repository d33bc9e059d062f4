package metrics

import (
	"testing"
	"time"

	"crm/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryMetrics_ObserveMutation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewInventoryMetrics(reg)
	require.NoError(t, err)

	m.ObserveMutation(entity.StockIn, entity.MutationSuccess, 10*time.Millisecond)
	m.ObserveMutation(entity.StockIn, entity.MutationSuccess, 20*time.Millisecond)
	m.ObserveMutation(entity.StockOut, entity.MutationAlreadyCompleted, time.Millisecond)
	m.IncRetry(entity.StockOut)

	concrete := m.(*prometheusInventoryMetrics)
	assert.Equal(t, float64(2), testutil.ToFloat64(concrete.mutations.WithLabelValues("IN", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(concrete.mutations.WithLabelValues("OUT", "alreadyCompleted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(concrete.retries.WithLabelValues("OUT")))
}

func TestNewInventoryMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewInventoryMetrics(reg)
	require.NoError(t, err)

	_, err = NewInventoryMetrics(reg)
	assert.Error(t, err)
}
