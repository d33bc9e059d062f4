package usecase

import (
	"context"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"

	"github.com/google/uuid"
)

// CreateUserInput defines an account created directly by an administrator.
type CreateUserInput struct {
	Username string
	Password string
	Phone    string
	Role     entity.Role
}

// UpdateUserInput carries optional changes; nil fields are left untouched.
type UpdateUserInput struct {
	Phone    *string
	Role     *entity.Role
	Password *string
}

// UserUsecase defines staff account administration.
type UserUsecase interface {
	List(ctx context.Context, filter repository.UserFilter) (*PageResult[*entity.User], error)
	Get(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Create(ctx context.Context, input CreateUserInput) (*entity.User, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*entity.User, error)
	Approve(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*entity.User, error)
	Delete(ctx context.Context, actor entity.Principal, id uuid.UUID) error
}
