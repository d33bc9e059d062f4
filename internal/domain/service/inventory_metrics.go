package service

import (
	"time"

	"crm/internal/domain/entity"
)

// InventoryMetrics records stock mutation outcomes.
type InventoryMetrics interface {
	ObserveMutation(opType entity.StockOperationType, status entity.StockMutationStatus, elapsed time.Duration)
	IncRetry(opType entity.StockOperationType)
}

// NopInventoryMetrics discards every observation.
type NopInventoryMetrics struct{}

func (NopInventoryMetrics) ObserveMutation(entity.StockOperationType, entity.StockMutationStatus, time.Duration) {
}

func (NopInventoryMetrics) IncRetry(entity.StockOperationType) {}
