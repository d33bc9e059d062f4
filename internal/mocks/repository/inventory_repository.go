package repository

import (
	"context"
	"time"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// MockInventoryRepository is a testify mock of repository.InventoryRepository.
type MockInventoryRepository struct {
	mock.Mock
}

// NewMockInventoryRepository creates a mock that asserts its expectations when the test ends.
func NewMockInventoryRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockInventoryRepository {
	m := &MockInventoryRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ repository.InventoryRepository = (*MockInventoryRepository)(nil)

func (m *MockInventoryRepository) Create(ctx context.Context, record *entity.InventoryRecord) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}

func (m *MockInventoryRepository) FindByOperationID(ctx context.Context, operationID string) (*entity.InventoryRecord, error) {
	args := m.Called(ctx, operationID)
	r0, _ := args.Get(0).(*entity.InventoryRecord)

	return r0, args.Error(1)
}

func (m *MockInventoryRepository) List(ctx context.Context, filter repository.InventoryFilter) ([]*entity.InventoryRecord, int64, error) {
	args := m.Called(ctx, filter)
	r0, _ := args.Get(0).([]*entity.InventoryRecord)
	r1, _ := args.Get(1).(int64)

	return r0, r1, args.Error(2)
}

func (m *MockInventoryRepository) DailyFlow(ctx context.Context, since time.Time) ([]entity.DailyStockFlow, error) {
	args := m.Called(ctx, since)
	r0, _ := args.Get(0).([]entity.DailyStockFlow)

	return r0, args.Error(1)
}

func (m *MockInventoryRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	r0, _ := args.Get(0).(int64)

	return r0, args.Error(1)
}
