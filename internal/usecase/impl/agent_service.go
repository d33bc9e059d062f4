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

type agentService struct {
	agentRepo repository.AgentRepository
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	names     nameResolver
	logger    *slog.Logger
}

// AgentServiceParams holds dependencies for AgentService, injected by Fx.
type AgentServiceParams struct {
	fx.In

	AgentRepo repository.AgentRepository
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Logger    *slog.Logger
}

// NewAgentService is the constructor for agentService.
func NewAgentService(params AgentServiceParams) usecase.AgentUsecase {
	return &agentService{
		agentRepo: params.AgentRepo,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		names:     nameResolver{userRepo: params.UserRepo, agentRepo: params.AgentRepo},
		logger:    params.Logger,
	}
}

func (srv *agentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List shows every agent to administrators and only their own agents to sales representatives.
func (srv *agentService) List(ctx context.Context, actor entity.Principal, filter repository.AgentFilter) (*usecase.PageResult[*usecase.AgentView], error) {
	switch actor.Role {
	case entity.RoleSuperAdmin:
	case entity.RoleFactorySales:
		filter.RelatedSalesID = uuidPtr(actor.ID)
	default:
		return nil, domainerrors.ErrForbidden
	}

	filter.Page = filter.Page.Normalize()
	filter.Keyword = strings.TrimSpace(filter.Keyword)

	agents, total, err := srv.agentRepo.List(ctx, filter)
	if err != nil {
		return nil, translateRepoError(err)
	}

	views, err := srv.decorate(ctx, agents)
	if err != nil {
		return nil, err
	}

	return usecase.NewPageResult(views, total, filter.Page), nil
}

func (srv *agentService) Get(ctx context.Context, actor entity.Principal, id uuid.UUID) (*usecase.AgentView, error) {
	agent, err := srv.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	views, err := srv.decorate(ctx, []*entity.Agent{agent})
	if err != nil {
		return nil, err
	}

	return views[0], nil
}

// manageable loads an agent the caller may see and edit.
func (srv *agentService) manageable(ctx context.Context, actor entity.Principal, id uuid.UUID) (*entity.Agent, error) {
	agent, err := srv.agentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}

	switch actor.Role {
	case entity.RoleSuperAdmin:
		return agent, nil
	case entity.RoleFactorySales:
		if agent.RelatedSalesID != nil && *agent.RelatedSalesID == actor.ID {
			return agent, nil
		}
	}

	return nil, domainerrors.ErrForbidden
}

func (srv *agentService) decorate(ctx context.Context, agents []*entity.Agent) ([]*usecase.AgentView, error) {
	salesIDs := newIDSet()
	for _, a := range agents {
		salesIDs.add(a.RelatedSalesID)
	}

	labels, err := srv.names.resolve(ctx, salesIDs, nil)
	if err != nil {
		return nil, translateRepoError(err)
	}

	views := make([]*usecase.AgentView, 0, len(agents))
	for _, a := range agents {
		views = append(views, &usecase.AgentView{Agent: a, RelatedSalesName: labels.user(a.RelatedSalesID)})
	}

	return views, nil
}

// Create adds an agent. Administrators create approved agents; an agent created by a sales
// representative is related to them and waits for approval.
func (srv *agentService) Create(ctx context.Context, actor entity.Principal, input usecase.CreateAgentInput) (*entity.Agent, error) {
	status := entity.StatusApproved
	switch actor.Role {
	case entity.RoleSuperAdmin:
		if input.RelatedSalesID != nil {
			if _, err := salesTarget(ctx, srv.userRepo, *input.RelatedSalesID); err != nil {
				return nil, err
			}
		}
	case entity.RoleFactorySales:
		input.RelatedSalesID = uuidPtr(actor.ID)
		status = entity.StatusPending
	default:
		return nil, domainerrors.ErrForbidden
	}

	agent, err := newAgent(srv.hasher, input, status)
	if err != nil {
		return nil, err
	}
	agent.CreatorID = uuidPtr(actor.ID)

	if err := srv.agentRepo.Create(ctx, agent); err != nil {
		return nil, translateRepoError(err)
	}

	srv.log(ctx).Info("Agent created", slog.String("agentId", agent.ID.String()), slog.String("operator", actor.Username))

	return agent, nil
}

func (srv *agentService) Update(ctx context.Context, actor entity.Principal, id uuid.UUID, input usecase.UpdateAgentInput) (*entity.Agent, error) {
	agent, err := srv.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.ContactPerson != nil {
		agent.ContactPerson = strings.TrimSpace(*input.ContactPerson)
	}
	if input.Phone != nil {
		agent.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.RelatedSalesID != nil && !sameUUID(agent.RelatedSalesID, input.RelatedSalesID) {
		if !actor.IsAdmin() {
			return nil, domainerrors.ErrForbidden.WithDetails("只有管理员可以修改代理商所属销售")
		}
		if _, err := salesTarget(ctx, srv.userRepo, *input.RelatedSalesID); err != nil {
			return nil, err
		}
		agent.RelatedSalesID = input.RelatedSalesID
	}
	if input.Password != nil {
		if err := srv.hasher.ValidatePasswordStrength(*input.Password); err != nil {
			return nil, err
		}
		hash, err := srv.hasher.Hash(*input.Password)
		if err != nil {
			return nil, domainerrors.ErrPasswordHashFailed
		}
		agent.PasswordHash = hash
	}

	if err := srv.agentRepo.Update(ctx, agent); err != nil {
		return nil, translateRepoError(err)
	}

	return agent, nil
}

func (srv *agentService) Approve(ctx context.Context, id uuid.UUID) (*entity.Agent, error) {
	return srv.review(ctx, id, entity.StatusApproved, "")
}

func (srv *agentService) Reject(ctx context.Context, id uuid.UUID, reason string) (*entity.Agent, error) {
	return srv.review(ctx, id, entity.StatusRejected, strings.TrimSpace(reason))
}

func (srv *agentService) review(ctx context.Context, id uuid.UUID, status entity.ApprovalStatus, reason string) (*entity.Agent, error) {
	agent, err := srv.agentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}

	agent.Status = status
	agent.RejectReason = reason

	if err := srv.agentRepo.Update(ctx, agent); err != nil {
		return nil, translateRepoError(err)
	}

	srv.log(ctx).Info("Agent reviewed", slog.String("agentId", id.String()), slog.String("status", string(status)))

	return agent, nil
}

func (srv *agentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := srv.agentRepo.Delete(ctx, id); err != nil {
		return translateRepoError(err)
	}

	srv.log(ctx).Info("Agent deleted", slog.String("agentId", id.String()))

	return nil
}

func sameUUID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}
