package entity

import (
	"time"

	"github.com/google/uuid"
)

// StockOperationType is the direction of a stock mutation.
type StockOperationType string

const (
	StockIn  StockOperationType = "IN"
	StockOut StockOperationType = "OUT"
)

// IsValid checks if the operation type is a known value.
func (t StockOperationType) IsValid() bool {
	return t == StockIn || t == StockOut
}

// Delta returns the signed stock change for a quantity.
func (t StockOperationType) Delta(quantity int64) int64 {
	if t == StockOut {
		return -quantity
	}

	return quantity
}

// InventoryRecord is the append-only audit entry of one applied stock mutation.
// OperationID is unique, so a mutation is recorded at most once.
type InventoryRecord struct {
	ID            uuid.UUID          `json:"id"`
	ProductID     uuid.UUID          `json:"productId"`
	OperationType StockOperationType `json:"operationType"`
	Quantity      int64              `json:"quantity"`
	StockBefore   int64              `json:"stockBefore"`
	StockAfter    int64              `json:"stockAfter"`
	OperatorID    uuid.UUID          `json:"operatorId"`
	OperatorName  string             `json:"operatorName"`
	Remark        string             `json:"remark"`
	OperationID   string             `json:"operationId"`
	OperationTime time.Time          `json:"operationTime"`
}

// Matches reports whether the record describes the same mutation request.
func (r *InventoryRecord) Matches(productID uuid.UUID, opType StockOperationType, quantity int64) bool {
	return r.ProductID == productID && r.OperationType == opType && r.Quantity == quantity
}

// StockMutationStatus classifies the outcome of a stock mutation.
type StockMutationStatus string

const (
	MutationSuccess          StockMutationStatus = "success"
	MutationAlreadyCompleted StockMutationStatus = "alreadyCompleted"
	MutationStatusUncertain  StockMutationStatus = "statusUncertain"
	// MutationFailed is only used for metrics; failures surface as errors.
	MutationFailed StockMutationStatus = "failed"
)
