package repository

import (
	"context"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// UserFilter narrows user listings.
type UserFilter struct {
	Role    entity.Role
	Status  entity.ApprovalStatus
	Keyword string
	Page    entity.Page
}

// UserRepository defines the standard operations for user persistence.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByUsername retrieves a single user by their login name.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByIDs loads every existing user among ids; missing ids are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error)

	// List returns a page of users and the total match count.
	List(ctx context.Context, filter UserFilter) ([]*entity.User, int64, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes a user.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByStatus counts users in an approval status.
	CountByStatus(ctx context.Context, status entity.ApprovalStatus) (int64, error)
}
