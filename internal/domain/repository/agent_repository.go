package repository

import (
	"context"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// AgentFilter narrows agent listings.
type AgentFilter struct {
	RelatedSalesID *uuid.UUID
	Status         entity.ApprovalStatus
	Keyword        string
	Page           entity.Page
}

// AgentRepository defines the persistence operations for agent companies.
type AgentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Agent, error)
	FindByCompanyName(ctx context.Context, companyName string) (*entity.Agent, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Agent, error)
	List(ctx context.Context, filter AgentFilter) ([]*entity.Agent, int64, error)
	Create(ctx context.Context, agent *entity.Agent) error
	Update(ctx context.Context, agent *entity.Agent) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts agents matching the filter; paging is ignored.
	Count(ctx context.Context, filter AgentFilter) (int64, error)
}
