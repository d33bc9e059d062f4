package usecase

import (
	"context"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// CustomerInput is the editable part of a customer.
type CustomerInput struct {
	Name             string
	Nature           entity.CustomerNature
	Importance       entity.CustomerImportance
	ApplicationField string
	Progress         entity.CustomerProgress
	Address          string
	ContactName      string
	ContactPhone     string
	ProductNeeds     []string
	AnnualDemand     int64
	Remark           string
	RelatedSalesID   *uuid.UUID
	RelatedAgentID   *uuid.UUID
}

// CustomerQuery narrows customer listings; visibility is derived from the caller.
type CustomerQuery struct {
	Keyword    string
	Progress   entity.CustomerProgress
	Importance entity.CustomerImportance
	Page       entity.Page
}

// CustomerView decorates a customer with resolved sales, agent and owner names.
type CustomerView struct {
	*entity.Customer
	RelatedSalesName string `json:"relatedSalesName,omitempty"`
	RelatedAgentName string `json:"relatedAgentName,omitempty"`
	OwnerName        string `json:"ownerName,omitempty"`
}

// DuplicateCheck reports whether a customer name is taken.
type DuplicateCheck struct {
	Exists         bool       `json:"exists"`
	CustomerID     *uuid.UUID `json:"customerId,omitempty"`
	IsInPublicPool bool       `json:"isInPublicPool"`
}

// ImportRowStatus is the outcome of one bulk import row.
type ImportRowStatus string

const (
	ImportCreated   ImportRowStatus = "created"
	ImportDuplicate ImportRowStatus = "duplicate"
	ImportInvalid   ImportRowStatus = "invalid"
)

// ImportRowResult describes what happened to one bulk import row.
type ImportRowResult struct {
	Index      int             `json:"index"`
	Name       string          `json:"name"`
	Status     ImportRowStatus `json:"status"`
	CustomerID *uuid.UUID      `json:"customerId,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// BulkImportOutput summarizes a bulk import.
type BulkImportOutput struct {
	Created    int               `json:"created"`
	Duplicates int               `json:"duplicates"`
	Invalid    int               `json:"invalid"`
	Results    []ImportRowResult `json:"results"`
}

// BulkTransferInput moves customers from one relation to another.
// With no CustomerIDs every customer of the source relation is moved.
type BulkTransferInput struct {
	CustomerIDs []uuid.UUID
	FromSalesID *uuid.UUID
	FromAgentID *uuid.UUID
	ToSalesID   *uuid.UUID
	ToAgentID   *uuid.UUID
	Remark      string
}

// BulkTransferOutput reports how many customers changed hands.
type BulkTransferOutput struct {
	Transferred int         `json:"transferred"`
	Skipped     []uuid.UUID `json:"skipped,omitempty"`
}

// CustomerUsecase defines customer management.
type CustomerUsecase interface {
	List(ctx context.Context, actor entity.Principal, query CustomerQuery) (*PageResult[*CustomerView], error)
	Get(ctx context.Context, actor entity.Principal, id uuid.UUID) (*CustomerView, error)
	Create(ctx context.Context, actor entity.Principal, input CustomerInput) (*entity.Customer, error)
	Update(ctx context.Context, actor entity.Principal, id uuid.UUID, input CustomerInput) (*entity.Customer, error)
	Delete(ctx context.Context, actor entity.Principal, id uuid.UUID) error
	CheckDuplicate(ctx context.Context, name string) (*DuplicateCheck, error)
	BulkImport(ctx context.Context, actor entity.Principal, inputs []CustomerInput) (*BulkImportOutput, error)
	MoveToPublicPool(ctx context.Context, actor entity.Principal, id uuid.UUID, remark string) (*entity.Customer, error)
	BulkTransfer(ctx context.Context, actor entity.Principal, input BulkTransferInput) (*BulkTransferOutput, error)
	// Export lists every visible customer matching query, ignoring paging.
	Export(ctx context.Context, actor entity.Principal, query CustomerQuery) ([]*CustomerView, error)
}
