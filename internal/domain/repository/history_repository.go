package repository

import (
	"context"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// HistoryRepository persists the customer assignment and progress audit logs.
type HistoryRepository interface {
	CreateAssignment(ctx context.Context, history *entity.CustomerAssignmentHistory) error
	CreateProgress(ctx context.Context, history *entity.CustomerProgressHistory) error

	// ListAssignments lists assignment history, newest first. A nil customerID lists everything.
	ListAssignments(ctx context.Context, customerID *uuid.UUID, page entity.Page) ([]*entity.CustomerAssignmentHistory, int64, error)

	// ListProgress lists progress history, newest first. A nil customerID lists everything.
	ListProgress(ctx context.Context, customerID *uuid.UUID, page entity.Page) ([]*entity.CustomerProgressHistory, int64, error)
}
