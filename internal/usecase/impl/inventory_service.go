package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"crm/config"
	deliverycontext "crm/internal/delivery/context"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/lifecycle"
	"crm/internal/domain/repository"
	"crm/internal/domain/service"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	maxOperationIDLength = 128

	warnAlreadyCompleted = "该操作已完成，未重复执行"
	warnStatusUncertain  = "库存操作状态不确定，请刷新后核对库存"
	warnStockUnreadable  = "操作已完成，但暂时无法读取最新库存，请刷新查看"
)

type inventoryService struct {
	txManager     repository.TransactionManager
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	metrics       service.InventoryMetrics
	retry         retryPolicy
	probeTimeout  time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

// InventoryServiceParams holds dependencies for InventoryService, injected by Fx.
type InventoryServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	ProductRepo   repository.ProductRepository
	InventoryRepo repository.InventoryRepository
	Metrics       service.InventoryMetrics
	Config        *config.Config
	Logger        *slog.Logger
}

// NewInventoryService is the constructor for inventoryService.
func NewInventoryService(params InventoryServiceParams) usecase.InventoryUsecase {
	attempts, delay := 1, time.Duration(0)
	if params.Config != nil && params.Config.Inventory != nil {
		attempts = params.Config.Inventory.RetryAttempts
		delay = params.Config.Inventory.RetryDelay
	}

	metrics := params.Metrics
	if metrics == nil {
		metrics = service.NopInventoryMetrics{}
	}

	return &inventoryService{
		txManager:     params.TxManager,
		productRepo:   params.ProductRepo,
		inventoryRepo: params.InventoryRepo,
		metrics:       metrics,
		retry:         newRetryPolicy(attempts, delay),
		probeTimeout:  lifecycle.DefaultTimeout,
		now:           time.Now,
		logger:        params.Logger,
	}
}

func (srv *inventoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Mutate applies one stock-in or stock-out exactly once per operation id.
//
// Each attempt runs the conditional stock update and the audit insert in one transaction.
// A unique violation on the operation id means an earlier attempt or request already
// committed, so the stored record is reported instead of applying the change twice.
// Transient failures are retried; when they persist, the key is probed to tell
// "applied" from "not applied", and an unreadable probe yields statusUncertain.
func (srv *inventoryService) Mutate(ctx context.Context, actor entity.Principal, input usecase.StockMutationInput) (*usecase.StockMutationResult, error) {
	if err := validateStockMutation(&input); err != nil {
		return nil, err
	}

	start := srv.now()
	logger := srv.log(ctx).With(
		slog.String("operationId", input.OperationID),
		slog.String("operationType", string(input.OperationType)),
		slog.String("productId", input.ProductID.String()),
		slog.Int64("quantity", input.Quantity),
	)

	var result *usecase.StockMutationResult
	err := srv.retry.do(ctx, func(attempt int) error {
		res, err := srv.attempt(ctx, actor, input, attempt)
		if err != nil {
			return err
		}
		result = res

		return nil
	}, func(attempt int, err error) {
		srv.metrics.IncRetry(input.OperationType)
		logger.Warn("Retrying stock mutation after transient failure", slog.Int("attempt", attempt), slog.Any("error", err))
	})

	if err != nil && repository.IsTransient(err) {
		logger.Error("Stock mutation failed after retries, probing operation id", slog.Any("error", err))
		result, err = srv.resolveAfterTransient(ctx, input)
	}

	if err != nil {
		srv.metrics.ObserveMutation(input.OperationType, entity.MutationFailed, srv.now().Sub(start))

		return nil, srv.mutationError(err, input)
	}

	srv.fillStock(ctx, input.ProductID, result)
	srv.metrics.ObserveMutation(input.OperationType, result.Status, srv.now().Sub(start))
	logger.Info("Stock mutation finished", slog.String("status", string(result.Status)))

	return result, nil
}

func (srv *inventoryService) attempt(ctx context.Context, actor entity.Principal, input usecase.StockMutationInput, attempt int) (*usecase.StockMutationResult, error) {
	delta := input.OperationType.Delta(input.Quantity)

	var record *entity.InventoryRecord
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		stockAfter, err := repoFactory.NewProductRepository().AdjustStock(ctx, input.ProductID, delta)
		if err != nil {
			return err
		}

		record = &entity.InventoryRecord{
			ProductID:     input.ProductID,
			OperationType: input.OperationType,
			Quantity:      input.Quantity,
			StockBefore:   stockAfter - delta,
			StockAfter:    stockAfter,
			OperatorID:    actor.ID,
			OperatorName:  actor.Username,
			Remark:        input.Remark,
			OperationID:   input.OperationID,
			OperationTime: srv.now(),
		}

		return repoFactory.NewInventoryRepository().Create(ctx, record)
	})
	if err == nil {
		return &usecase.StockMutationResult{
			Status:      entity.MutationSuccess,
			OperationID: input.OperationID,
			Record:      record,
		}, nil
	}

	// A replay can fail either on the unique key or, for stock-out, on the stock check
	// because the first application already consumed the stock.
	if errors.Is(err, repository.ErrDuplicateOperation) || errors.Is(err, repository.ErrInsufficientStock) {
		existing, findErr := srv.inventoryRepo.FindByOperationID(ctx, input.OperationID)
		switch {
		case findErr == nil:
			return replayResult(existing, input, attempt)
		case errors.Is(findErr, repository.ErrInventoryRecordNotFound):
			return nil, err
		default:
			return nil, findErr
		}
	}

	return nil, err
}

func replayResult(existing *entity.InventoryRecord, input usecase.StockMutationInput, attempt int) (*usecase.StockMutationResult, error) {
	if !existing.Matches(input.ProductID, input.OperationType, input.Quantity) {
		return nil, domainerrors.ErrIdempotencyKeyReused
	}

	// On a retry the record was most likely written by this call's own earlier attempt.
	status := entity.MutationAlreadyCompleted
	if attempt > 1 {
		status = entity.MutationSuccess
	}

	return &usecase.StockMutationResult{
		Status:      status,
		OperationID: input.OperationID,
		Record:      existing,
	}, nil
}

// resolveAfterTransient decides the outcome once retries are exhausted.
func (srv *inventoryService) resolveAfterTransient(ctx context.Context, input usecase.StockMutationInput) (*usecase.StockMutationResult, error) {
	probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), srv.probeTimeout)
	defer cancel()

	existing, err := srv.inventoryRepo.FindByOperationID(probeCtx, input.OperationID)
	switch {
	case err == nil:
		if !existing.Matches(input.ProductID, input.OperationType, input.Quantity) {
			return nil, domainerrors.ErrIdempotencyKeyReused
		}

		return &usecase.StockMutationResult{
			Status:      entity.MutationSuccess,
			OperationID: input.OperationID,
			Record:      existing,
		}, nil
	case errors.Is(err, repository.ErrInventoryRecordNotFound):
		return nil, domainerrors.ErrStockOperationFailed.WithDetails("库存未变更，可使用相同操作编号重试")
	default:
		srv.log(ctx).Error("Stock mutation outcome unknown",
			slog.String("operationId", input.OperationID),
			slog.Any("error", err),
		)

		return &usecase.StockMutationResult{
			Status:      entity.MutationStatusUncertain,
			OperationID: input.OperationID,
			Warning:     warnStatusUncertain,
		}, nil
	}
}

// fillStock attaches the expected stock from the record and the current stock read from the primary.
func (srv *inventoryService) fillStock(ctx context.Context, productID uuid.UUID, result *usecase.StockMutationResult) {
	if result.Status == entity.MutationStatusUncertain {
		return
	}

	if result.Status == entity.MutationAlreadyCompleted {
		result.Warning = warnAlreadyCompleted
	}

	if result.Record != nil {
		expected := result.Record.StockAfter
		result.ExpectedStock = &expected
	}

	current, err := srv.productRepo.CurrentStock(ctx, productID)
	if err != nil {
		srv.log(ctx).Warn("Failed to read stock after mutation", slog.String("productId", productID.String()), slog.Any("error", err))
		if result.Warning == "" {
			result.Warning = warnStockUnreadable
		}

		return
	}
	result.CurrentStock = &current
}

func (srv *inventoryService) mutationError(err error, input usecase.StockMutationInput) error {
	if errors.Is(err, repository.ErrInsufficientStock) {
		return domainerrors.ErrInsufficientStock.WithDetails(fmt.Sprintf("出库数量 %d 超过当前库存", input.Quantity))
	}

	return translateRepoError(err)
}

// BulkMutate runs each item as an independent mutation. Validation and business failures are
// reported per item; only a cancelled context aborts the batch.
func (srv *inventoryService) BulkMutate(ctx context.Context, actor entity.Principal, inputs []usecase.StockMutationInput) ([]usecase.BulkStockItemResult, error) {
	if len(inputs) == 0 {
		return nil, validationError("至少需要一条库存操作")
	}

	results := make([]usecase.BulkStockItemResult, 0, len(inputs))
	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}

		item := usecase.BulkStockItemResult{Index: i, ProductID: input.ProductID}
		res, err := srv.Mutate(ctx, actor, input)
		if err != nil {
			item.Error = bulkItemError(err)
		} else {
			item.Result = res
		}
		results = append(results, item)
	}

	return results, nil
}

func bulkItemError(err error) *usecase.BulkItemError {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		msg := appErr.Message()
		if d := appErr.Details(); d != "" {
			msg += ": " + d
		}

		return &usecase.BulkItemError{Code: appErr.ErrorCode(), Message: msg}
	}

	return &usecase.BulkItemError{Code: domainerrors.ErrInternalError.ErrorCode(), Message: domainerrors.ErrInternalError.Message()}
}

func (srv *inventoryService) ListRecords(ctx context.Context, filter repository.InventoryFilter) (*usecase.PageResult[*usecase.InventoryRecordView], error) {
	filter.Page = filter.Page.Normalize()

	records, total, err := srv.inventoryRepo.List(ctx, filter)
	if err != nil {
		return nil, translateRepoError(err)
	}

	views, err := srv.decorate(ctx, records)
	if err != nil {
		return nil, err
	}

	return usecase.NewPageResult(views, total, filter.Page), nil
}

func (srv *inventoryService) ExportRecords(ctx context.Context, filter repository.InventoryFilter) ([]*usecase.InventoryRecordView, error) {
	filter.Page = entity.Page{}

	records, _, err := srv.inventoryRepo.List(ctx, filter)
	if err != nil {
		return nil, translateRepoError(err)
	}

	return srv.decorate(ctx, records)
}

// decorate joins product labels through an id map.
func (srv *inventoryService) decorate(ctx context.Context, records []*entity.InventoryRecord) ([]*usecase.InventoryRecordView, error) {
	ids := make([]uuid.UUID, 0, len(records))
	seen := make(map[uuid.UUID]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.ProductID]; ok {
			continue
		}
		seen[r.ProductID] = struct{}{}
		ids = append(ids, r.ProductID)
	}

	products, err := srv.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, translateRepoError(err)
	}

	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	views := make([]*usecase.InventoryRecordView, 0, len(records))
	for _, r := range records {
		view := &usecase.InventoryRecordView{InventoryRecord: r}
		if p, ok := byID[r.ProductID]; ok {
			view.ModelName = p.ModelName
			view.PackageType = p.PackageType
		}
		views = append(views, view)
	}

	return views, nil
}

func validateStockMutation(input *usecase.StockMutationInput) error {
	if input.ProductID == uuid.Nil {
		return validationError("productId is required")
	}
	if !input.OperationType.IsValid() {
		return validationError("operationType must be IN or OUT")
	}
	if input.Quantity <= 0 {
		return validationError("quantity must be a positive integer")
	}

	input.OperationID = strings.TrimSpace(input.OperationID)
	if input.OperationID == "" {
		input.OperationID = uuid.NewString()
	}
	if len(input.OperationID) > maxOperationIDLength {
		return validationError(fmt.Sprintf("operationId must be at most %d characters", maxOperationIDLength))
	}

	return nil
}
