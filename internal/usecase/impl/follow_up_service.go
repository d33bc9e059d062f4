package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "crm/internal/delivery/context"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type followUpService struct {
	followUpRepo repository.FollowUpRepository
	customerRepo repository.CustomerRepository
	logger       *slog.Logger
}

// FollowUpServiceParams holds dependencies for FollowUpService, injected by Fx.
type FollowUpServiceParams struct {
	fx.In

	FollowUpRepo repository.FollowUpRepository
	CustomerRepo repository.CustomerRepository
	Logger       *slog.Logger
}

// NewFollowUpService is the constructor for followUpService.
func NewFollowUpService(params FollowUpServiceParams) usecase.FollowUpUsecase {
	return &followUpService{
		followUpRepo: params.FollowUpRepo,
		customerRepo: params.CustomerRepo,
		logger:       params.Logger,
	}
}

func (srv *followUpService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *followUpService) List(ctx context.Context, actor entity.Principal, customerID uuid.UUID, page entity.Page) (*usecase.PageResult[*entity.FollowUpRecord], error) {
	if err := srv.checkCustomer(ctx, actor, customerID); err != nil {
		return nil, err
	}

	page = page.Normalize()
	records, total, err := srv.followUpRepo.ListByCustomer(ctx, customerID, page)
	if err != nil {
		return nil, translateRepoError(err)
	}

	return usecase.NewPageResult(records, total, page), nil
}

func (srv *followUpService) Create(ctx context.Context, actor entity.Principal, input usecase.FollowUpInput) (*entity.FollowUpRecord, error) {
	if err := validateFollowUp(&input); err != nil {
		return nil, err
	}
	if err := srv.checkCustomer(ctx, actor, input.CustomerID); err != nil {
		return nil, err
	}

	record := &entity.FollowUpRecord{
		CustomerID:  input.CustomerID,
		Title:       input.Title,
		Content:     input.Content,
		CreatorID:   actor.ID,
		CreatorName: actor.Username,
		CreatorType: actor.Role,
	}
	if err := srv.followUpRepo.Create(ctx, record); err != nil {
		return nil, translateRepoError(err)
	}

	srv.log(ctx).Info("Follow-up created", slog.String("customerId", input.CustomerID.String()), slog.String("creator", actor.Username))

	return record, nil
}

// Update edits a note; only its creator may change it.
func (srv *followUpService) Update(ctx context.Context, actor entity.Principal, id uuid.UUID, input usecase.FollowUpInput) (*entity.FollowUpRecord, error) {
	record, err := srv.followUpRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if record.CreatorID != actor.ID {
		return nil, domainerrors.ErrForbidden.WithDetails("只能修改自己的跟进记录")
	}

	input.CustomerID = record.CustomerID
	if err := validateFollowUp(&input); err != nil {
		return nil, err
	}

	record.Title = input.Title
	record.Content = input.Content
	if err := srv.followUpRepo.Update(ctx, record); err != nil {
		return nil, translateRepoError(err)
	}

	return record, nil
}

// Delete removes a note; its creator and administrators may do so.
func (srv *followUpService) Delete(ctx context.Context, actor entity.Principal, id uuid.UUID) error {
	record, err := srv.followUpRepo.FindByID(ctx, id)
	if err != nil {
		return translateRepoError(err)
	}
	if record.CreatorID != actor.ID && !actor.IsAdmin() {
		return domainerrors.ErrForbidden
	}

	if err := srv.followUpRepo.Delete(ctx, id); err != nil {
		return translateRepoError(err)
	}

	return nil
}

func (srv *followUpService) checkCustomer(ctx context.Context, actor entity.Principal, customerID uuid.UUID) error {
	customer, err := srv.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return translateRepoError(err)
	}
	if !customer.IsVisibleTo(actor) {
		return domainerrors.ErrForbidden
	}

	return nil
}

func validateFollowUp(input *usecase.FollowUpInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if input.CustomerID == uuid.Nil {
		return validationError("customerId is required")
	}
	if input.Title == "" || input.Content == "" {
		return validationError("标题和内容不能为空")
	}

	return nil
}
