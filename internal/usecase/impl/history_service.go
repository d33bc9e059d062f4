package impl

import (
	"context"

	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type historyService struct {
	historyRepo  repository.HistoryRepository
	customerRepo repository.CustomerRepository
}

// HistoryServiceParams holds dependencies for HistoryService, injected by Fx.
type HistoryServiceParams struct {
	fx.In

	HistoryRepo  repository.HistoryRepository
	CustomerRepo repository.CustomerRepository
}

// NewHistoryService is the constructor for historyService.
func NewHistoryService(params HistoryServiceParams) usecase.HistoryUsecase {
	return &historyService{
		historyRepo:  params.HistoryRepo,
		customerRepo: params.CustomerRepo,
	}
}

func (srv *historyService) ListAssignments(ctx context.Context, actor entity.Principal, customerID *uuid.UUID, page entity.Page) (*usecase.PageResult[*entity.CustomerAssignmentHistory], error) {
	if err := srv.authorize(ctx, actor, customerID); err != nil {
		return nil, err
	}

	page = page.Normalize()
	items, total, err := srv.historyRepo.ListAssignments(ctx, customerID, page)
	if err != nil {
		return nil, translateRepoError(err)
	}

	return usecase.NewPageResult(items, total, page), nil
}

func (srv *historyService) ListProgress(ctx context.Context, actor entity.Principal, customerID *uuid.UUID, page entity.Page) (*usecase.PageResult[*entity.CustomerProgressHistory], error) {
	if err := srv.authorize(ctx, actor, customerID); err != nil {
		return nil, err
	}

	page = page.Normalize()
	items, total, err := srv.historyRepo.ListProgress(ctx, customerID, page)
	if err != nil {
		return nil, translateRepoError(err)
	}

	return usecase.NewPageResult(items, total, page), nil
}

// authorize lets administrators read every log; others only the log of a customer they can see.
func (srv *historyService) authorize(ctx context.Context, actor entity.Principal, customerID *uuid.UUID) error {
	if actor.IsAdmin() {
		return nil
	}
	if customerID == nil {
		return domainerrors.ErrForbidden.WithDetails("需要指定客户")
	}

	customer, err := srv.customerRepo.FindByID(ctx, *customerID)
	if err != nil {
		return translateRepoError(err)
	}
	if !customer.IsVisibleTo(actor) {
		return domainerrors.ErrForbidden
	}

	return nil
}
