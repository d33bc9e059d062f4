package repository

import (
	"context"
	"time"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// InventoryFilter narrows inventory record listings.
type InventoryFilter struct {
	ProductID     *uuid.UUID
	OperationType entity.StockOperationType
	From          *time.Time
	To            *time.Time
	Page          entity.Page
}

// InventoryRepository persists the stock audit log.
type InventoryRepository interface {
	// Create appends a record; a reused operation id yields ErrDuplicateOperation.
	Create(ctx context.Context, record *entity.InventoryRecord) error

	// FindByOperationID reads a record by idempotency key from the primary.
	FindByOperationID(ctx context.Context, operationID string) (*entity.InventoryRecord, error)

	List(ctx context.Context, filter InventoryFilter) ([]*entity.InventoryRecord, int64, error)

	// DailyFlow sums quantities per day and direction since the given time.
	DailyFlow(ctx context.Context, since time.Time) ([]entity.DailyStockFlow, error)

	// CountSince counts records created at or after since.
	CountSince(ctx context.Context, since time.Time) (int64, error)
}
