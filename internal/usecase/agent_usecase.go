package usecase

import (
	"context"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"

	"github.com/google/uuid"
)

// CreateAgentInput defines an agent created by an administrator or a sales representative.
type CreateAgentInput struct {
	CompanyName    string
	Password       string
	ContactPerson  string
	Phone          string
	RelatedSalesID *uuid.UUID
}

// UpdateAgentInput carries optional changes; nil fields are left untouched.
type UpdateAgentInput struct {
	ContactPerson  *string
	Phone          *string
	Password       *string
	RelatedSalesID *uuid.UUID
}

// AgentView decorates an agent with the name of its sales representative.
type AgentView struct {
	*entity.Agent
	RelatedSalesName string `json:"relatedSalesName,omitempty"`
}

// AgentUsecase defines agent company administration.
type AgentUsecase interface {
	List(ctx context.Context, actor entity.Principal, filter repository.AgentFilter) (*PageResult[*AgentView], error)
	Get(ctx context.Context, actor entity.Principal, id uuid.UUID) (*AgentView, error)
	Create(ctx context.Context, actor entity.Principal, input CreateAgentInput) (*entity.Agent, error)
	Update(ctx context.Context, actor entity.Principal, id uuid.UUID, input UpdateAgentInput) (*entity.Agent, error)
	Approve(ctx context.Context, id uuid.UUID) (*entity.Agent, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*entity.Agent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
