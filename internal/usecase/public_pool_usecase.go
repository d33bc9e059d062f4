package usecase

import (
	"context"
	"time"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// PublicPoolCustomer is the restricted view of a pooled customer. Contact details stay hidden
// until the customer is claimed.
type PublicPoolCustomer struct {
	ID                uuid.UUID                 `json:"id"`
	Name              string                    `json:"name"`
	Nature            entity.CustomerNature     `json:"nature"`
	Importance        entity.CustomerImportance `json:"importance"`
	ApplicationField  string                    `json:"applicationField"`
	ProductNeeds      []string                  `json:"productNeeds"`
	AnnualDemand      int64                     `json:"annualDemand"`
	EnterPoolTime     *time.Time                `json:"enterPoolTime,omitempty"`
	PreviousOwnerType entity.Role               `json:"previousOwnerType,omitempty"`
	PreviousOwnerName string                    `json:"previousOwnerName,omitempty"`
}

// AssignInput names who receives a pooled customer.
type AssignInput struct {
	TargetType entity.Role
	TargetID   uuid.UUID
	Remark     string
}

// PublicPoolUsecase manages customers waiting in the public pool.
type PublicPoolUsecase interface {
	List(ctx context.Context, query CustomerQuery) (*PageResult[*PublicPoolCustomer], error)
	Assign(ctx context.Context, actor entity.Principal, id uuid.UUID, input AssignInput) (*entity.Customer, error)
	Claim(ctx context.Context, actor entity.Principal, id uuid.UUID) (*entity.Customer, error)
}
