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

const initialStockRemark = "初始库存"

type productService struct {
	txManager   repository.TransactionManager
	productRepo repository.ProductRepository
	now         func() time.Time
	logger      *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		txManager:   params.TxManager,
		productRepo: params.ProductRepo,
		now:         time.Now,
		logger:      params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *productService) List(ctx context.Context, filter repository.ProductFilter) (*usecase.PageResult[*entity.Product], error) {
	filter.Page = filter.Page.Normalize()
	filter.Keyword = strings.TrimSpace(filter.Keyword)

	products, total, err := srv.productRepo.List(ctx, filter)
	if err != nil {
		return nil, translateRepoError(err)
	}

	return usecase.NewPageResult(products, total, filter.Page), nil
}

func (srv *productService) Export(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	filter.Page = entity.Page{}
	filter.Keyword = strings.TrimSpace(filter.Keyword)

	products, _, err := srv.productRepo.List(ctx, filter)
	if err != nil {
		return nil, translateRepoError(err)
	}

	return products, nil
}

func (srv *productService) Get(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}

	return product, nil
}

// Create adds a product. Initial stock is written together with a matching stock-in record
// so the audit log always explains the current stock.
func (srv *productService) Create(ctx context.Context, actor entity.Principal, input usecase.CreateProductInput) (*entity.Product, error) {
	input.ModelName = strings.TrimSpace(input.ModelName)
	input.PackageType = strings.TrimSpace(input.PackageType)
	if input.ModelName == "" || input.PackageType == "" {
		return nil, validationError("型号和封装不能为空")
	}
	if input.Stock < 0 {
		return nil, validationError("库存不能为负数")
	}
	if err := input.Pricing.Validate(); err != nil {
		return nil, domainerrors.ErrInvalidPricing.WithDetails(err.Error())
	}

	product := &entity.Product{
		ModelName:   input.ModelName,
		PackageType: input.PackageType,
		Stock:       input.Stock,
		Pricing:     input.Pricing,
		Remark:      input.Remark,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewProductRepository().Create(ctx, product); err != nil {
			return err
		}
		if product.Stock == 0 {
			return nil
		}

		return repoFactory.NewInventoryRepository().Create(ctx, &entity.InventoryRecord{
			ProductID:     product.ID,
			OperationType: entity.StockIn,
			Quantity:      product.Stock,
			StockBefore:   0,
			StockAfter:    product.Stock,
			OperatorID:    actor.ID,
			OperatorName:  actor.Username,
			Remark:        initialStockRemark,
			OperationID:   uuid.NewString(),
			OperationTime: srv.now(),
		})
	})
	if err != nil {
		return nil, translateRepoError(err)
	}

	srv.log(ctx).Info("Product created",
		slog.String("productId", product.ID.String()),
		slog.String("product", product.Label()),
		slog.Int64("stock", product.Stock),
	)

	return product, nil
}

// Update changes catalog fields only; stock moves through inventory operations.
func (srv *productService) Update(ctx context.Context, id uuid.UUID, input usecase.UpdateProductInput) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}

	if input.ModelName != nil {
		product.ModelName = strings.TrimSpace(*input.ModelName)
	}
	if input.PackageType != nil {
		product.PackageType = strings.TrimSpace(*input.PackageType)
	}
	if product.ModelName == "" || product.PackageType == "" {
		return nil, validationError("型号和封装不能为空")
	}
	if input.Pricing != nil {
		if err := input.Pricing.Validate(); err != nil {
			return nil, domainerrors.ErrInvalidPricing.WithDetails(err.Error())
		}
		product.Pricing = input.Pricing
	}
	if input.Remark != nil {
		product.Remark = *input.Remark
	}

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, translateRepoError(err)
	}

	return product, nil
}

func (srv *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := srv.productRepo.Delete(ctx, id); err != nil {
		return translateRepoError(err)
	}

	srv.log(ctx).Info("Product deleted", slog.String("productId", id.String()))

	return nil
}
