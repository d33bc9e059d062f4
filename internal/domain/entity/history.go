package entity

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentOperation names the reason a customer's relation changed.
type AssignmentOperation string

const (
	AssignmentCreate       AssignmentOperation = "创建分配"
	AssignmentReassign     AssignmentOperation = "重新分配"
	AssignmentMoveToPublic AssignmentOperation = "移入公海池"
	AssignmentPoolAssign   AssignmentOperation = "公海分配"
	AssignmentPoolClaim    AssignmentOperation = "公海认领"
	AssignmentBulkTransfer AssignmentOperation = "批量转移"
)

// CustomerAssignmentHistory is an append-only log entry of a relation change.
type CustomerAssignmentHistory struct {
	ID            uuid.UUID           `json:"id"`
	CustomerID    uuid.UUID           `json:"customerId"`
	CustomerName  string              `json:"customerName"`
	FromSalesID   *uuid.UUID          `json:"fromRelatedSalesId,omitempty"`
	FromSalesName string              `json:"fromRelatedSalesName,omitempty"`
	FromAgentID   *uuid.UUID          `json:"fromRelatedAgentId,omitempty"`
	FromAgentName string              `json:"fromRelatedAgentName,omitempty"`
	ToSalesID     *uuid.UUID          `json:"toRelatedSalesId,omitempty"`
	ToSalesName   string              `json:"toRelatedSalesName,omitempty"`
	ToAgentID     *uuid.UUID          `json:"toRelatedAgentId,omitempty"`
	ToAgentName   string              `json:"toRelatedAgentName,omitempty"`
	OperationType AssignmentOperation `json:"operationType"`
	OperatorID    uuid.UUID           `json:"operatorId"`
	OperatorName  string              `json:"operatorName"`
	Remark        string              `json:"remark,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// CustomerProgressHistory is an append-only log entry of a progress change.
type CustomerProgressHistory struct {
	ID           uuid.UUID `json:"id"`
	CustomerID   uuid.UUID `json:"customerId"`
	CustomerName string    `json:"customerName"`
	FromProgress string    `json:"fromProgress"`
	ToProgress   string    `json:"toProgress"`
	OperatorID   uuid.UUID `json:"operatorId"`
	OperatorName string    `json:"operatorName"`
	Remark       string    `json:"remark,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
