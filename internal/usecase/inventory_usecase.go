package usecase

import (
	"context"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"

	"github.com/google/uuid"
)

// StockMutationInput is one stock-in or stock-out request.
// OperationID is the client's idempotency key; an empty key gets a fresh server-side one.
type StockMutationInput struct {
	ProductID     uuid.UUID
	OperationType entity.StockOperationType
	Quantity      int64
	Remark        string
	OperationID   string
}

// StockMutationResult is the outcome of a stock mutation.
// CurrentStock is read back from the primary; ExpectedStock is the stock the audit record left behind.
type StockMutationResult struct {
	Status        entity.StockMutationStatus `json:"status"`
	OperationID   string                     `json:"operationId"`
	Record        *entity.InventoryRecord    `json:"record,omitempty"`
	CurrentStock  *int64                     `json:"currentStock,omitempty"`
	ExpectedStock *int64                     `json:"expectedStock,omitempty"`
	Warning       string                     `json:"-"`
}

// BulkItemError describes why one bulk item failed.
type BulkItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BulkStockItemResult pairs a bulk item with its outcome.
type BulkStockItemResult struct {
	Index     int                  `json:"index"`
	ProductID uuid.UUID            `json:"productId"`
	Result    *StockMutationResult `json:"result,omitempty"`
	Error     *BulkItemError       `json:"error,omitempty"`
}

// InventoryRecordView decorates a record with its product label.
type InventoryRecordView struct {
	*entity.InventoryRecord
	ModelName   string `json:"modelName"`
	PackageType string `json:"packageType"`
}

// InventoryUsecase defines stock mutations and the audit log.
type InventoryUsecase interface {
	Mutate(ctx context.Context, actor entity.Principal, input StockMutationInput) (*StockMutationResult, error)
	// BulkMutate applies each item independently and reports per-item outcomes.
	BulkMutate(ctx context.Context, actor entity.Principal, inputs []StockMutationInput) ([]BulkStockItemResult, error)
	ListRecords(ctx context.Context, filter repository.InventoryFilter) (*PageResult[*InventoryRecordView], error)
	ExportRecords(ctx context.Context, filter repository.InventoryFilter) ([]*InventoryRecordView, error)
}
