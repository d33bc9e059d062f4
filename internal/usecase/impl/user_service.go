package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "crm/internal/delivery/context"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"
	"crm/internal/domain/service"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo repository.UserRepository
	hasher   service.PasswordHasher
	logger   *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Hasher   service.PasswordHasher
	Logger   *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo: params.UserRepo,
		hasher:   params.Hasher,
		logger:   params.Logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *userService) List(ctx context.Context, filter repository.UserFilter) (*usecase.PageResult[*entity.User], error) {
	filter.Page = filter.Page.Normalize()
	filter.Keyword = strings.TrimSpace(filter.Keyword)

	users, total, err := srv.userRepo.List(ctx, filter)
	if err != nil {
		return nil, translateRepoError(err)
	}

	return usecase.NewPageResult(users, total, filter.Page), nil
}

func (srv *userService) Get(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}

	return user, nil
}

// Create adds a staff account that is approved immediately.
func (srv *userService) Create(ctx context.Context, input usecase.CreateUserInput) (*entity.User, error) {
	user, err := newUser(srv.hasher, input.Username, input.Password, input.Phone, input.Role, entity.StatusApproved)
	if err != nil {
		return nil, err
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, translateRepoError(err)
	}

	srv.log(ctx).Info("User created", slog.String("userId", user.ID.String()), slog.String("role", user.Role.String()))

	return user, nil
}

func (srv *userService) Update(ctx context.Context, id uuid.UUID, input usecase.UpdateUserInput) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}

	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Role != nil {
		if !input.Role.IsUserRole() {
			return nil, validationError("无效的用户角色")
		}
		user.Role = *input.Role
	}
	if input.Password != nil {
		if err := srv.hasher.ValidatePasswordStrength(*input.Password); err != nil {
			return nil, err
		}
		hash, err := srv.hasher.Hash(*input.Password)
		if err != nil {
			return nil, domainerrors.ErrPasswordHashFailed
		}
		user.PasswordHash = hash
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, translateRepoError(err)
	}

	return user, nil
}

// Approve activates a pending or rejected account.
func (srv *userService) Approve(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return srv.review(ctx, id, entity.StatusApproved, "")
}

// Reject blocks an account; the reason is shown when it tries to log in.
func (srv *userService) Reject(ctx context.Context, id uuid.UUID, reason string) (*entity.User, error) {
	return srv.review(ctx, id, entity.StatusRejected, strings.TrimSpace(reason))
}

func (srv *userService) review(ctx context.Context, id uuid.UUID, status entity.ApprovalStatus, reason string) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}

	user.Status = status
	user.RejectReason = reason

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, translateRepoError(err)
	}

	srv.log(ctx).Info("User reviewed", slog.String("userId", id.String()), slog.String("status", string(status)))

	return user, nil
}

// Delete removes a staff account. Super admins and the caller's own account are protected.
func (srv *userService) Delete(ctx context.Context, actor entity.Principal, id uuid.UUID) error {
	if actor.ID == id {
		return domainerrors.ErrCannotDeleteSelf
	}

	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		return translateRepoError(err)
	}
	if user.Role == entity.RoleSuperAdmin {
		return domainerrors.ErrCannotDeleteSuperAdmin
	}

	if err := srv.userRepo.Delete(ctx, id); err != nil {
		return translateRepoError(err)
	}

	srv.log(ctx).Info("User deleted", slog.String("userId", id.String()), slog.String("operator", actor.Username))

	return nil
}
