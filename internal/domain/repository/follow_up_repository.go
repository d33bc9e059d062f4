package repository

import (
	"context"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// FollowUpRepository persists follow-up notes.
type FollowUpRepository interface {
	Create(ctx context.Context, record *entity.FollowUpRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.FollowUpRecord, error)
	Update(ctx context.Context, record *entity.FollowUpRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, page entity.Page) ([]*entity.FollowUpRecord, int64, error)
}
