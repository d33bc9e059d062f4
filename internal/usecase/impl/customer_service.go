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
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type customerService struct {
	txManager    repository.TransactionManager
	customerRepo repository.CustomerRepository
	userRepo     repository.UserRepository
	agentRepo    repository.AgentRepository
	names        nameResolver
	now          func() time.Time
	logger       *slog.Logger
}

// CustomerServiceParams holds dependencies for CustomerService, injected by Fx.
type CustomerServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CustomerRepo repository.CustomerRepository
	UserRepo     repository.UserRepository
	AgentRepo    repository.AgentRepository
	Logger       *slog.Logger
}

// NewCustomerService is the constructor for customerService.
func NewCustomerService(params CustomerServiceParams) usecase.CustomerUsecase {
	return &customerService{
		txManager:    params.TxManager,
		customerRepo: params.CustomerRepo,
		userRepo:     params.UserRepo,
		agentRepo:    params.AgentRepo,
		names:        nameResolver{userRepo: params.UserRepo, agentRepo: params.AgentRepo},
		now:          time.Now,
		logger:       params.Logger,
	}
}

func (srv *customerService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// visibilityFilter turns the caller's role into the ownership part of a customer query.
func visibilityFilter(actor entity.Principal) (repository.CustomerFilter, error) {
	switch actor.Role {
	case entity.RoleSuperAdmin:
		return repository.CustomerFilter{}, nil
	case entity.RoleFactorySales:
		return repository.CustomerFilter{VisibleToSalesID: uuidPtr(actor.ID)}, nil
	case entity.RoleAgent:
		return repository.CustomerFilter{VisibleToAgentID: uuidPtr(actor.ID)}, nil
	default:
		return repository.CustomerFilter{}, domainerrors.ErrForbidden
	}
}

func (srv *customerService) buildFilter(actor entity.Principal, query usecase.CustomerQuery) (repository.CustomerFilter, error) {
	filter, err := visibilityFilter(actor)
	if err != nil {
		return filter, err
	}

	filter.Keyword = strings.TrimSpace(query.Keyword)
	filter.Progress = query.Progress
	filter.Importance = query.Importance
	filter.Page = query.Page

	return filter, nil
}

func (srv *customerService) List(ctx context.Context, actor entity.Principal, query usecase.CustomerQuery) (*usecase.PageResult[*usecase.CustomerView], error) {
	query.Page = query.Page.Normalize()

	filter, err := srv.buildFilter(actor, query)
	if err != nil {
		return nil, err
	}

	customers, total, err := srv.customerRepo.List(ctx, filter)
	if err != nil {
		return nil, translateRepoError(err)
	}

	views, err := srv.decorate(ctx, customers)
	if err != nil {
		return nil, err
	}

	return usecase.NewPageResult(views, total, query.Page), nil
}

func (srv *customerService) Export(ctx context.Context, actor entity.Principal, query usecase.CustomerQuery) ([]*usecase.CustomerView, error) {
	query.Page = entity.Page{}

	filter, err := srv.buildFilter(actor, query)
	if err != nil {
		return nil, err
	}

	customers, _, err := srv.customerRepo.List(ctx, filter)
	if err != nil {
		return nil, translateRepoError(err)
	}

	return srv.decorate(ctx, customers)
}

func (srv *customerService) Get(ctx context.Context, actor entity.Principal, id uuid.UUID) (*usecase.CustomerView, error) {
	customer, err := srv.visibleCustomer(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	views, err := srv.decorate(ctx, []*entity.Customer{customer})
	if err != nil {
		return nil, err
	}

	return views[0], nil
}

// visibleCustomer loads a customer and hides it from callers outside its visibility.
func (srv *customerService) visibleCustomer(ctx context.Context, actor entity.Principal, id uuid.UUID) (*entity.Customer, error) {
	customer, err := srv.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if customer.IsInPublicPool {
		return nil, domainerrors.ErrCustomerInPublicPool
	}
	if !customer.IsVisibleTo(actor) {
		return nil, domainerrors.ErrForbidden
	}

	return customer, nil
}

func (srv *customerService) decorate(ctx context.Context, customers []*entity.Customer) ([]*usecase.CustomerView, error) {
	userIDs, agentIDs := newIDSet(), newIDSet()
	for _, c := range customers {
		userIDs.add(c.RelatedSalesID)
		agentIDs.add(c.RelatedAgentID)
		if c.OwnerType == entity.RoleAgent {
			agentIDs.add(uuidPtr(c.OwnerID))
		} else {
			userIDs.add(uuidPtr(c.OwnerID))
		}
	}

	labels, err := srv.names.resolve(ctx, userIDs, agentIDs)
	if err != nil {
		return nil, translateRepoError(err)
	}

	views := make([]*usecase.CustomerView, 0, len(customers))
	for _, c := range customers {
		views = append(views, &usecase.CustomerView{
			Customer:         c,
			RelatedSalesName: labels.user(c.RelatedSalesID),
			RelatedAgentName: labels.agent(c.RelatedAgentID),
			OwnerName:        labels.owner(c.OwnerID, c.OwnerType),
		})
	}

	return views, nil
}

// Create stores a customer owned by the caller and logs its initial progress and relation.
func (srv *customerService) Create(ctx context.Context, actor entity.Principal, input usecase.CustomerInput) (*entity.Customer, error) {
	if err := validateCustomerInput(&input, true); err != nil {
		return nil, err
	}

	relation, err := srv.creationRelation(ctx, actor, input)
	if err != nil {
		return nil, err
	}

	labels, err := srv.names.relationNames(ctx, relation)
	if err != nil {
		return nil, translateRepoError(err)
	}

	now := srv.now()
	customer := &entity.Customer{
		Name:             input.Name,
		Nature:           input.Nature,
		Importance:       input.Importance,
		ApplicationField: input.ApplicationField,
		Progress:         input.Progress,
		Address:          input.Address,
		ContactName:      input.ContactName,
		ContactPhone:     input.ContactPhone,
		ProductNeeds:     input.ProductNeeds,
		AnnualDemand:     input.AnnualDemand,
		Remark:           input.Remark,
		OwnerID:          actor.ID,
		OwnerType:        actor.Role,
		RelatedSalesID:   relation.SalesID,
		RelatedAgentID:   relation.AgentID,
		LastUpdateTime:   now,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewCustomerRepository().Create(ctx, customer); err != nil {
			return err
		}

		historyRepo := repoFactory.NewHistoryRepository()
		if err := historyRepo.CreateProgress(ctx, newProgressHistory(customer, entity.ProgressNone, string(customer.Progress), actor, "", now)); err != nil {
			return err
		}

		if relation.IsEmpty() {
			return nil
		}

		return historyRepo.CreateAssignment(ctx, newAssignmentHistory(customer, entity.Relation{}, relation, labels, entity.AssignmentCreate, actor, "", now))
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to create customer", slog.String("name", input.Name), slog.Any("error", err))

		return nil, translateRepoError(err)
	}

	srv.log(ctx).Info("Customer created", slog.String("customerId", customer.ID.String()), slog.String("owner", actor.Username))

	return customer, nil
}

// creationRelation derives the initial assignment from the creator's role.
func (srv *customerService) creationRelation(ctx context.Context, actor entity.Principal, input usecase.CustomerInput) (entity.Relation, error) {
	switch actor.Role {
	case entity.RoleSuperAdmin:
		rel := entity.Relation{SalesID: input.RelatedSalesID, AgentID: input.RelatedAgentID}
		if err := validateRelation(ctx, srv.userRepo, srv.agentRepo, rel); err != nil {
			return rel, err
		}

		return rel, nil
	case entity.RoleFactorySales:
		rel := entity.Relation{SalesID: uuidPtr(actor.ID)}
		if input.RelatedAgentID != nil {
			if err := srv.checkOwnAgent(ctx, actor, *input.RelatedAgentID); err != nil {
				return rel, err
			}
			rel.AgentID = input.RelatedAgentID
		}

		return rel, nil
	case entity.RoleAgent:
		agent, err := srv.agentRepo.FindByID(ctx, actor.ID)
		if err != nil {
			return entity.Relation{}, translateRepoError(err)
		}

		return entity.Relation{SalesID: agent.RelatedSalesID, AgentID: uuidPtr(actor.ID)}, nil
	default:
		return entity.Relation{}, domainerrors.ErrForbidden
	}
}

// checkOwnAgent allows a sales representative to work only with agents related to them.
func (srv *customerService) checkOwnAgent(ctx context.Context, actor entity.Principal, agentID uuid.UUID) error {
	agent, err := agentTarget(ctx, srv.agentRepo, agentID)
	if err != nil {
		return err
	}
	if agent.RelatedSalesID == nil || *agent.RelatedSalesID != actor.ID {
		return domainerrors.ErrInvalidAssignTarget.WithDetails("只能分配给自己名下的代理商")
	}

	return nil
}

// Update edits a visible customer. Progress and relation changes are appended to the history logs.
// Relations change only when a relation id is supplied; clearing happens through the public pool.
func (srv *customerService) Update(ctx context.Context, actor entity.Principal, id uuid.UUID, input usecase.CustomerInput) (*entity.Customer, error) {
	if err := validateCustomerInput(&input, false); err != nil {
		return nil, err
	}

	customer, err := srv.visibleCustomer(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	from := customer.Relation()
	to, err := srv.updatedRelation(ctx, actor, customer, input)
	if err != nil {
		return nil, err
	}

	fromProgress := customer.Progress
	now := srv.now()

	customer.Name = input.Name
	customer.Nature = input.Nature
	customer.Importance = input.Importance
	customer.ApplicationField = input.ApplicationField
	customer.Address = input.Address
	customer.ContactName = input.ContactName
	customer.ContactPhone = input.ContactPhone
	customer.ProductNeeds = input.ProductNeeds
	customer.AnnualDemand = input.AnnualDemand
	customer.Remark = input.Remark
	if input.Progress != "" {
		customer.Progress = input.Progress
	}
	customer.RelatedSalesID = to.SalesID
	customer.RelatedAgentID = to.AgentID
	customer.LastUpdateTime = now

	relationChanged := !from.Equal(to)
	var labels names
	if relationChanged {
		if labels, err = srv.names.relationNames(ctx, from, to); err != nil {
			return nil, translateRepoError(err)
		}
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewCustomerRepository().Update(ctx, customer); err != nil {
			return err
		}

		historyRepo := repoFactory.NewHistoryRepository()
		if customer.Progress != fromProgress {
			if err := historyRepo.CreateProgress(ctx, newProgressHistory(customer, string(fromProgress), string(customer.Progress), actor, "", now)); err != nil {
				return err
			}
		}

		if relationChanged {
			return historyRepo.CreateAssignment(ctx, newAssignmentHistory(customer, from, to, labels, entity.AssignmentReassign, actor, "", now))
		}

		return nil
	})
	if err != nil {
		return nil, translateRepoError(err)
	}

	return customer, nil
}

func (srv *customerService) updatedRelation(ctx context.Context, actor entity.Principal, customer *entity.Customer, input usecase.CustomerInput) (entity.Relation, error) {
	current := customer.Relation()
	if input.RelatedSalesID == nil && input.RelatedAgentID == nil {
		return current, nil
	}

	switch actor.Role {
	case entity.RoleSuperAdmin:
		next := current
		if input.RelatedSalesID != nil {
			next.SalesID = input.RelatedSalesID
		}
		if input.RelatedAgentID != nil {
			next.AgentID = input.RelatedAgentID
		}
		if err := validateRelation(ctx, srv.userRepo, srv.agentRepo, next); err != nil {
			return current, err
		}

		return next, nil
	case entity.RoleFactorySales:
		if input.RelatedSalesID != nil && *input.RelatedSalesID != actor.ID {
			return current, domainerrors.ErrForbidden.WithDetails("销售不能将客户转给其他销售")
		}
		next := current
		if input.RelatedAgentID != nil {
			if err := srv.checkOwnAgent(ctx, actor, *input.RelatedAgentID); err != nil {
				return current, err
			}
			next.AgentID = input.RelatedAgentID
		}

		return next, nil
	default:
		if current.Equal(entity.Relation{SalesID: orID(input.RelatedSalesID, current.SalesID), AgentID: orID(input.RelatedAgentID, current.AgentID)}) {
			return current, nil
		}

		return current, domainerrors.ErrForbidden.WithDetails("无权修改客户分配")
	}
}

func orID(candidate, fallback *uuid.UUID) *uuid.UUID {
	if candidate != nil {
		return candidate
	}

	return fallback
}

func (srv *customerService) Delete(ctx context.Context, actor entity.Principal, id uuid.UUID) error {
	customer, err := srv.customerRepo.FindByID(ctx, id)
	if err != nil {
		return translateRepoError(err)
	}
	if !customer.CanBeDeletedBy(actor) {
		return domainerrors.ErrForbidden
	}

	if err := srv.customerRepo.Delete(ctx, id); err != nil {
		return translateRepoError(err)
	}

	srv.log(ctx).Info("Customer deleted", slog.String("customerId", id.String()), slog.String("operator", actor.Username))

	return nil
}

func (srv *customerService) CheckDuplicate(ctx context.Context, name string) (*usecase.DuplicateCheck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("name is required")
	}

	customer, err := srv.customerRepo.FindByName(ctx, name)
	if errors.Is(err, repository.ErrCustomerNotFound) {
		return &usecase.DuplicateCheck{}, nil
	}
	if err != nil {
		return nil, translateRepoError(err)
	}

	return &usecase.DuplicateCheck{Exists: true, CustomerID: uuidPtr(customer.ID), IsInPublicPool: customer.IsInPublicPool}, nil
}

// BulkImport creates each row independently. Rows that fail validation or clash with an existing
// name are reported and skipped; storage failures abort the import.
func (srv *customerService) BulkImport(ctx context.Context, actor entity.Principal, inputs []usecase.CustomerInput) (*usecase.BulkImportOutput, error) {
	if len(inputs) == 0 {
		return nil, validationError("至少需要导入一条客户数据")
	}

	out := &usecase.BulkImportOutput{Results: make([]usecase.ImportRowResult, 0, len(inputs))}
	seen := make(map[string]struct{}, len(inputs))

	for i, input := range inputs {
		row := usecase.ImportRowResult{Index: i, Name: strings.TrimSpace(input.Name)}

		if _, dup := seen[row.Name]; dup && row.Name != "" {
			row.Status = usecase.ImportDuplicate
			row.Error = "导入数据中客户名称重复"
			out.Duplicates++
			out.Results = append(out.Results, row)

			continue
		}
		seen[row.Name] = struct{}{}

		customer, err := srv.Create(ctx, actor, input)
		switch {
		case err == nil:
			row.Status = usecase.ImportCreated
			row.CustomerID = uuidPtr(customer.ID)
			out.Created++
		case errors.Is(err, domainerrors.ErrCustomerAlreadyExists):
			row.Status = usecase.ImportDuplicate
			row.Error = domainerrors.ErrCustomerAlreadyExists.Message()
			out.Duplicates++
		case isRowError(err):
			row.Status = usecase.ImportInvalid
			row.Error = err.Error()
			out.Invalid++
		default:
			return nil, err
		}
		out.Results = append(out.Results, row)
	}

	srv.log(ctx).Info("Customer import finished",
		slog.Int("created", out.Created),
		slog.Int("duplicates", out.Duplicates),
		slog.Int("invalid", out.Invalid),
	)

	return out, nil
}

// isRowError reports client-side problems that only affect one import row.
func isRowError(err error) bool {
	var appErr domainerrors.AppError
	if !errors.As(err, &appErr) {
		return false
	}

	return appErr.HTTPCode() < 500
}

// MoveToPublicPool releases a customer into the public pool and logs where it came from.
func (srv *customerService) MoveToPublicPool(ctx context.Context, actor entity.Principal, id uuid.UUID, remark string) (*entity.Customer, error) {
	customer, err := srv.visibleCustomer(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	from := customer.Relation()
	fromProgress := customer.Progress

	labels, err := srv.names.relationNames(ctx, from)
	if err != nil {
		return nil, translateRepoError(err)
	}

	now := srv.now()
	customer.MoveToPublicPool(now)

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewCustomerRepository().Update(ctx, customer); err != nil {
			return err
		}

		historyRepo := repoFactory.NewHistoryRepository()
		if err := historyRepo.CreateAssignment(ctx, newAssignmentHistory(customer, from, entity.Relation{}, labels, entity.AssignmentMoveToPublic, actor, remark, now)); err != nil {
			return err
		}

		return historyRepo.CreateProgress(ctx, newProgressHistory(customer, string(fromProgress), string(customer.Progress), actor, remark, now))
	})
	if err != nil {
		return nil, translateRepoError(err)
	}

	srv.log(ctx).Info("Customer moved to public pool", slog.String("customerId", id.String()), slog.String("operator", actor.Username))

	return customer, nil
}

// BulkTransfer reassigns customers from one relation to another in a single transaction.
func (srv *customerService) BulkTransfer(ctx context.Context, actor entity.Principal, input usecase.BulkTransferInput) (*usecase.BulkTransferOutput, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	to := entity.Relation{SalesID: input.ToSalesID, AgentID: input.ToAgentID}
	if to.IsEmpty() {
		return nil, validationError("转移目标不能为空")
	}
	if err := validateRelation(ctx, srv.userRepo, srv.agentRepo, to); err != nil {
		return nil, err
	}

	customers, err := srv.transferCandidates(ctx, input)
	if err != nil {
		return nil, err
	}

	out := &usecase.BulkTransferOutput{}
	moving := make([]*entity.Customer, 0, len(customers))
	relations := []entity.Relation{to}
	for _, c := range customers {
		if c.IsInPublicPool || c.Relation().Equal(to) {
			out.Skipped = append(out.Skipped, c.ID)

			continue
		}
		moving = append(moving, c)
		relations = append(relations, c.Relation())
	}

	labels, err := srv.names.relationNames(ctx, relations...)
	if err != nil {
		return nil, translateRepoError(err)
	}

	now := srv.now()
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		customerRepo := repoFactory.NewCustomerRepository()
		historyRepo := repoFactory.NewHistoryRepository()

		for _, c := range moving {
			from := c.Relation()
			c.RelatedSalesID = to.SalesID
			c.RelatedAgentID = to.AgentID
			c.LastUpdateTime = now

			if err := customerRepo.Update(ctx, c); err != nil {
				return err
			}
			if err := historyRepo.CreateAssignment(ctx, newAssignmentHistory(c, from, to, labels, entity.AssignmentBulkTransfer, actor, input.Remark, now)); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, translateRepoError(err)
	}

	out.Transferred = len(moving)
	srv.log(ctx).Info("Customers transferred", slog.Int("transferred", out.Transferred), slog.Int("skipped", len(out.Skipped)))

	return out, nil
}

func (srv *customerService) transferCandidates(ctx context.Context, input usecase.BulkTransferInput) ([]*entity.Customer, error) {
	if len(input.CustomerIDs) > 0 {
		customers := make([]*entity.Customer, 0, len(input.CustomerIDs))
		for _, id := range input.CustomerIDs {
			c, err := srv.customerRepo.FindByID(ctx, id)
			if err != nil {
				return nil, translateRepoError(err)
			}
			customers = append(customers, c)
		}

		return customers, nil
	}

	if input.FromSalesID == nil && input.FromAgentID == nil {
		return nil, validationError("需要指定客户列表或转出方")
	}

	customers, _, err := srv.customerRepo.List(ctx, repository.CustomerFilter{
		RelatedSalesID: input.FromSalesID,
		RelatedAgentID: input.FromAgentID,
	})
	if err != nil {
		return nil, translateRepoError(err)
	}

	return customers, nil
}

// validateCustomerInput trims and checks the enumerations. On create an empty progress
// defaults to sample evaluation.
func validateCustomerInput(input *usecase.CustomerInput, creating bool) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return validationError("客户名称不能为空")
	}
	if input.Nature != "" && !input.Nature.IsValid() {
		return validationError("无效的客户性质")
	}
	if input.Importance != "" && !input.Importance.IsValid() {
		return validationError("无效的重要程度")
	}
	if input.Progress == "" && creating {
		input.Progress = entity.ProgressSampleEvaluation
	}
	if input.Progress != "" && !input.Progress.IsAssignable() {
		return validationError("无效的客户进展")
	}
	if input.AnnualDemand < 0 {
		return validationError("年需求量不能为负数")
	}
	if input.ProductNeeds == nil {
		input.ProductNeeds = []string{}
	}

	return nil
}
