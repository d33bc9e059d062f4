package usecase

import (
	"context"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// FollowUpInput is the editable part of a follow-up note.
type FollowUpInput struct {
	CustomerID uuid.UUID
	Title      string
	Content    string
}

// FollowUpUsecase manages follow-up notes on visible customers.
type FollowUpUsecase interface {
	List(ctx context.Context, actor entity.Principal, customerID uuid.UUID, page entity.Page) (*PageResult[*entity.FollowUpRecord], error)
	Create(ctx context.Context, actor entity.Principal, input FollowUpInput) (*entity.FollowUpRecord, error)
	Update(ctx context.Context, actor entity.Principal, id uuid.UUID, input FollowUpInput) (*entity.FollowUpRecord, error)
	Delete(ctx context.Context, actor entity.Principal, id uuid.UUID) error
}
