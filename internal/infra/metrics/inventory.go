// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"time"

	"crm/internal/domain/entity"
	"crm/internal/domain/service"

	"github.com/prometheus/client_golang/prometheus"
)

type prometheusInventoryMetrics struct {
	mutations *prometheus.CounterVec
	retries   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewInventoryMetrics registers the stock mutation collectors on reg.
func NewInventoryMetrics(reg prometheus.Registerer) (service.InventoryMetrics, error) {
	m := &prometheusInventoryMetrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "inventory",
			Name:      "stock_mutations_total",
			Help:      "Stock mutations by operation type and outcome",
		}, []string{"operation", "status"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "inventory",
			Name:      "stock_mutation_retries_total",
			Help:      "Stock mutation attempts retried after a transient storage failure",
		}, []string{"operation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crm",
			Subsystem: "inventory",
			Name:      "stock_mutation_duration_seconds",
			Help:      "Wall time of a stock mutation including retries",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	for _, c := range []prometheus.Collector{m.mutations, m.retries, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *prometheusInventoryMetrics) ObserveMutation(opType entity.StockOperationType, status entity.StockMutationStatus, elapsed time.Duration) {
	m.mutations.WithLabelValues(string(opType), string(status)).Inc()
	m.duration.WithLabelValues(string(opType)).Observe(elapsed.Seconds())
}

func (m *prometheusInventoryMetrics) IncRetry(opType entity.StockOperationType) {
	m.retries.WithLabelValues(string(opType)).Inc()
}
