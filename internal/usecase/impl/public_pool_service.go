package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "crm/internal/delivery/context"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type publicPoolService struct {
	txManager    repository.TransactionManager
	customerRepo repository.CustomerRepository
	userRepo     repository.UserRepository
	agentRepo    repository.AgentRepository
	names        nameResolver
	now          func() time.Time
	logger       *slog.Logger
}

// PublicPoolServiceParams holds dependencies for PublicPoolService, injected by Fx.
type PublicPoolServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CustomerRepo repository.CustomerRepository
	UserRepo     repository.UserRepository
	AgentRepo    repository.AgentRepository
	Logger       *slog.Logger
}

// NewPublicPoolService is the constructor for publicPoolService.
func NewPublicPoolService(params PublicPoolServiceParams) usecase.PublicPoolUsecase {
	return &publicPoolService{
		txManager:    params.TxManager,
		customerRepo: params.CustomerRepo,
		userRepo:     params.UserRepo,
		agentRepo:    params.AgentRepo,
		names:        nameResolver{userRepo: params.UserRepo, agentRepo: params.AgentRepo},
		now:          time.Now,
		logger:       params.Logger,
	}
}

func (srv *publicPoolService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List shows pooled customers to every authenticated role, without contact details.
func (srv *publicPoolService) List(ctx context.Context, query usecase.CustomerQuery) (*usecase.PageResult[*usecase.PublicPoolCustomer], error) {
	query.Page = query.Page.Normalize()

	customers, total, err := srv.customerRepo.List(ctx, repository.CustomerFilter{
		InPublicPool: true,
		Keyword:      strings.TrimSpace(query.Keyword),
		Importance:   query.Importance,
		Page:         query.Page,
	})
	if err != nil {
		return nil, translateRepoError(err)
	}

	userIDs, agentIDs := newIDSet(), newIDSet()
	for _, c := range customers {
		if c.PreviousOwnerID == nil {
			continue
		}
		if c.PreviousOwnerType == entity.RoleAgent {
			agentIDs.add(c.PreviousOwnerID)
		} else {
			userIDs.add(c.PreviousOwnerID)
		}
	}

	labels, err := srv.names.resolve(ctx, userIDs, agentIDs)
	if err != nil {
		return nil, translateRepoError(err)
	}

	items := make([]*usecase.PublicPoolCustomer, 0, len(customers))
	for _, c := range customers {
		item := &usecase.PublicPoolCustomer{
			ID:                c.ID,
			Name:              c.Name,
			Nature:            c.Nature,
			Importance:        c.Importance,
			ApplicationField:  c.ApplicationField,
			ProductNeeds:      c.ProductNeeds,
			AnnualDemand:      c.AnnualDemand,
			EnterPoolTime:     c.EnterPoolTime,
			PreviousOwnerType: c.PreviousOwnerType,
		}
		if c.PreviousOwnerID != nil {
			item.PreviousOwnerName = labels.owner(*c.PreviousOwnerID, c.PreviousOwnerType)
		}
		items = append(items, item)
	}

	return usecase.NewPageResult(items, total, query.Page), nil
}

// Assign hands a pooled customer to an approved sales representative or agent. Admin only.
func (srv *publicPoolService) Assign(ctx context.Context, actor entity.Principal, id uuid.UUID, input usecase.AssignInput) (*entity.Customer, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	relation, err := srv.targetRelation(ctx, input.TargetType, input.TargetID)
	if err != nil {
		return nil, err
	}

	return srv.takeFromPool(ctx, actor, id, relation, entity.AssignmentPoolAssign, input.Remark)
}

// Claim lets a sales representative or agent take a pooled customer for themselves.
func (srv *publicPoolService) Claim(ctx context.Context, actor entity.Principal, id uuid.UUID) (*entity.Customer, error) {
	if actor.Role != entity.RoleFactorySales && actor.Role != entity.RoleAgent {
		return nil, domainerrors.ErrForbidden.WithDetails("只有厂家销售和代理商可以认领客户")
	}

	relation, err := srv.targetRelation(ctx, actor.Role, actor.ID)
	if err != nil {
		return nil, err
	}

	return srv.takeFromPool(ctx, actor, id, relation, entity.AssignmentPoolClaim, "")
}

// targetRelation builds the relation a pooled customer gets; an agent brings its related sales.
func (srv *publicPoolService) targetRelation(ctx context.Context, targetType entity.Role, targetID uuid.UUID) (entity.Relation, error) {
	switch targetType {
	case entity.RoleFactorySales:
		if _, err := salesTarget(ctx, srv.userRepo, targetID); err != nil {
			return entity.Relation{}, err
		}

		return entity.Relation{SalesID: uuidPtr(targetID)}, nil
	case entity.RoleAgent:
		agent, err := agentTarget(ctx, srv.agentRepo, targetID)
		if err != nil {
			return entity.Relation{}, err
		}

		return entity.Relation{SalesID: agent.RelatedSalesID, AgentID: uuidPtr(targetID)}, nil
	default:
		return entity.Relation{}, domainerrors.ErrInvalidAssignTarget.WithDetails("分配对象必须是厂家销售或代理商")
	}
}

func (srv *publicPoolService) takeFromPool(
	ctx context.Context,
	actor entity.Principal,
	id uuid.UUID,
	relation entity.Relation,
	op entity.AssignmentOperation,
	remark string,
) (*entity.Customer, error) {
	customer, err := srv.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if !customer.IsInPublicPool {
		return nil, domainerrors.ErrCustomerNotInPublicPool
	}

	labels, err := srv.names.relationNames(ctx, relation)
	if err != nil {
		return nil, translateRepoError(err)
	}

	fromProgress := customer.Progress
	now := srv.now()
	customer.AssignFromPool(relation, now)
	if relation.AgentID != nil {
		customer.OwnerID, customer.OwnerType = *relation.AgentID, entity.RoleAgent
	} else {
		customer.OwnerID, customer.OwnerType = *relation.SalesID, entity.RoleFactorySales
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewCustomerRepository().Update(ctx, customer); err != nil {
			return err
		}

		historyRepo := repoFactory.NewHistoryRepository()
		if err := historyRepo.CreateAssignment(ctx, newAssignmentHistory(customer, entity.Relation{}, relation, labels, op, actor, remark, now)); err != nil {
			return err
		}

		return historyRepo.CreateProgress(ctx, newProgressHistory(customer, string(fromProgress), string(customer.Progress), actor, remark, now))
	})
	if err != nil {
		return nil, translateRepoError(err)
	}

	srv.log(ctx).Info("Customer left public pool",
		slog.String("customerId", id.String()),
		slog.String("operation", string(op)),
		slog.String("operator", actor.Username),
	)

	return customer, nil
}
