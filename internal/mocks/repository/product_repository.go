package repository

import (
	"context"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a testify mock of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

// NewMockProductRepository creates a mock that asserts its expectations when the test ends.
func NewMockProductRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProductRepository {
	m := &MockProductRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ repository.ProductRepository = (*MockProductRepository)(nil)

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	r0, _ := args.Get(0).(*entity.Product)

	return r0, args.Error(1)
}

func (m *MockProductRepository) FindByModelAndPackage(ctx context.Context, modelName string, packageType string) (*entity.Product, error) {
	args := m.Called(ctx, modelName, packageType)
	r0, _ := args.Get(0).(*entity.Product)

	return r0, args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	args := m.Called(ctx, ids)
	r0, _ := args.Get(0).([]*entity.Product)

	return r0, args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, int64, error) {
	args := m.Called(ctx, filter)
	r0, _ := args.Get(0).([]*entity.Product)
	r1, _ := args.Get(1).(int64)

	return r0, r1, args.Error(2)
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	args := m.Called(ctx, id, delta)
	r0, _ := args.Get(0).(int64)

	return r0, args.Error(1)
}

func (m *MockProductRepository) CurrentStock(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	r0, _ := args.Get(0).(int64)

	return r0, args.Error(1)
}

func (m *MockProductRepository) Totals(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	r0, _ := args.Get(0).(int64)
	r1, _ := args.Get(1).(int64)

	return r0, r1, args.Error(2)
}

func (m *MockProductRepository) TopByStock(ctx context.Context, limit int) ([]*entity.Product, error) {
	args := m.Called(ctx, limit)
	r0, _ := args.Get(0).([]*entity.Product)

	return r0, args.Error(1)
}

func (m *MockProductRepository) LowStock(ctx context.Context, threshold int64, limit int) ([]*entity.Product, error) {
	args := m.Called(ctx, threshold, limit)
	r0, _ := args.Get(0).([]*entity.Product)

	return r0, args.Error(1)
}
