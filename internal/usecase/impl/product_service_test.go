package impl

import (
	"context"
	"testing"
	"time"

	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productFixtures struct {
	repoMocks
	service *productService
}

func createTestProductService(t *testing.T) productFixtures {
	t.Helper()

	mocks := newRepoMocks(t)
	svc := NewProductService(ProductServiceParams{
		TxManager:   mocks.txManager,
		ProductRepo: mocks.products,
		Logger:      newDiscardLogger(),
	}).(*productService)
	svc.now = func() time.Time { return fixedNow }

	return productFixtures{repoMocks: mocks, service: svc}
}

func TestProductService_Create_RecordsInitialStock(t *testing.T) {
	f := createTestProductService(t)
	manager := principal(entity.RoleInventoryManager, "warehouse")
	productID := uuid.New()

	f.products.On("Create", mock.Anything, mock.AnythingOfType("*entity.Product")).
		Run(func(args mock.Arguments) { args.Get(1).(*entity.Product).ID = productID }).
		Return(nil).Once()

	var record *entity.InventoryRecord
	f.inventory.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { record = args.Get(1).(*entity.InventoryRecord) }).
		Return(nil).Once()

	product, err := f.service.Create(context.Background(), manager, usecase.CreateProductInput{
		ModelName:   " X1 ",
		PackageType: "SOT23",
		Stock:       500,
		Pricing:     sevenTiers(),
	})
	require.NoError(t, err)

	assert.Equal(t, "X1", product.ModelName)
	assert.Equal(t, int64(500), product.Stock)

	require.NotNil(t, record)
	assert.Equal(t, productID, record.ProductID)
	assert.Equal(t, entity.StockIn, record.OperationType)
	assert.Equal(t, int64(500), record.Quantity)
	assert.Equal(t, int64(0), record.StockBefore)
	assert.Equal(t, int64(500), record.StockAfter)
	assert.Equal(t, "warehouse", record.OperatorName)
	assert.Equal(t, fixedNow, record.OperationTime)
	assert.NotEmpty(t, record.OperationID)
}

func TestProductService_Create_ZeroStockHasNoRecord(t *testing.T) {
	f := createTestProductService(t)
	f.products.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := f.service.Create(context.Background(), principal(entity.RoleSuperAdmin, "admin"), usecase.CreateProductInput{
		ModelName:   "X1",
		PackageType: "SOT23",
		Pricing:     sevenTiers(),
	})
	require.NoError(t, err)

	f.inventory.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_Create_Validation(t *testing.T) {
	actor := principal(entity.RoleSuperAdmin, "admin")
	tests := []struct {
		name    string
		input   usecase.CreateProductInput
		wantErr error
	}{
		{
			name:    "missing package",
			input:   usecase.CreateProductInput{ModelName: "X1", Pricing: sevenTiers()},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "negative stock",
			input:   usecase.CreateProductInput{ModelName: "X1", PackageType: "SOT23", Stock: -1, Pricing: sevenTiers()},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "six tiers",
			input:   usecase.CreateProductInput{ModelName: "X1", PackageType: "SOT23", Pricing: sevenTiers()[:6]},
			wantErr: domainerrors.ErrInvalidPricing,
		},
		{
			name: "negative price",
			input: func() usecase.CreateProductInput {
				pricing := sevenTiers()
				pricing[3].Price = decimal.NewFromInt(-1)

				return usecase.CreateProductInput{ModelName: "X1", PackageType: "SOT23", Pricing: pricing}
			}(),
			wantErr: domainerrors.ErrInvalidPricing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTestProductService(t)
			_, err := f.service.Create(context.Background(), actor, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProductService_Create_DuplicatePair(t *testing.T) {
	f := createTestProductService(t)
	f.products.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateProduct).Once()

	_, err := f.service.Create(context.Background(), principal(entity.RoleSuperAdmin, "admin"), usecase.CreateProductInput{
		ModelName: "X1", PackageType: "SOT23", Stock: 10, Pricing: sevenTiers(),
	})
	assert.ErrorIs(t, err, domainerrors.ErrProductAlreadyExists)
	f.inventory.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_Update_KeepsStockAndPricing(t *testing.T) {
	f := createTestProductService(t)

	pricing := sevenTiers()
	product := &entity.Product{ID: uuid.New(), ModelName: "X1", PackageType: "SOT23", Stock: 70, Pricing: pricing}
	remark := "EOL soon"

	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil).Once()
	f.products.On("Update", mock.Anything, product).Return(nil).Once()

	updated, err := f.service.Update(context.Background(), product.ID, usecase.UpdateProductInput{Remark: &remark})
	require.NoError(t, err)

	assert.Equal(t, int64(70), updated.Stock)
	assert.Equal(t, pricing, updated.Pricing)
	assert.Equal(t, "EOL soon", updated.Remark)
}

func TestProductService_Get_NotFound(t *testing.T) {
	f := createTestProductService(t)
	id := uuid.New()
	f.products.On("FindByID", mock.Anything, id).Return(nil, repository.ErrProductNotFound).Once()

	_, err := f.service.Get(context.Background(), id)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}
