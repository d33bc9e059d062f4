package repository

import (
	"context"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// CustomerFilter narrows customer queries.
// VisibleToSalesID and VisibleToAgentID express the per-role ownership rules:
// a customer matches when its relation or its owner is the given id.
type CustomerFilter struct {
	InPublicPool     bool
	VisibleToSalesID *uuid.UUID
	VisibleToAgentID *uuid.UUID
	RelatedSalesID   *uuid.UUID
	RelatedAgentID   *uuid.UUID
	Keyword          string
	Progress         entity.CustomerProgress
	Importance       entity.CustomerImportance
	Page             entity.Page
}

// CustomerGroupField is a column customers can be grouped by.
type CustomerGroupField string

const (
	GroupByProgress   CustomerGroupField = "progress"
	GroupByImportance CustomerGroupField = "importance"
	GroupByNature     CustomerGroupField = "nature"
)

// CustomerRepository defines the persistence operations for customers.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)

	// FindByName looks up a customer by exact name.
	FindByName(ctx context.Context, name string) (*entity.Customer, error)

	List(ctx context.Context, filter CustomerFilter) ([]*entity.Customer, int64, error)
	Create(ctx context.Context, customer *entity.Customer) error
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts customers matching the filter; paging is ignored.
	Count(ctx context.Context, filter CustomerFilter) (int64, error)

	// CountGroupBy counts customers matching the filter grouped by field.
	CountGroupBy(ctx context.Context, filter CustomerFilter, field CustomerGroupField) ([]entity.CountBucket, error)
}
