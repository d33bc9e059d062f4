package usecase

import (
	"context"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// HistoryUsecase exposes the customer audit logs.
// Non-admin callers must name a customer they can see.
type HistoryUsecase interface {
	ListAssignments(ctx context.Context, actor entity.Principal, customerID *uuid.UUID, page entity.Page) (*PageResult[*entity.CustomerAssignmentHistory], error)
	ListProgress(ctx context.Context, actor entity.Principal, customerID *uuid.UUID, page entity.Page) (*PageResult[*entity.CustomerProgressHistory], error)
}
