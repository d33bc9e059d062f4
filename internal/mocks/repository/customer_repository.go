package repository

import (
	"context"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCustomerRepository is a testify mock of repository.CustomerRepository.
type MockCustomerRepository struct {
	mock.Mock
}

// NewMockCustomerRepository creates a mock that asserts its expectations when the test ends.
func NewMockCustomerRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCustomerRepository {
	m := &MockCustomerRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ repository.CustomerRepository = (*MockCustomerRepository)(nil)

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	args := m.Called(ctx, id)
	r0, _ := args.Get(0).(*entity.Customer)

	return r0, args.Error(1)
}

func (m *MockCustomerRepository) FindByName(ctx context.Context, name string) (*entity.Customer, error) {
	args := m.Called(ctx, name)
	r0, _ := args.Get(0).(*entity.Customer)

	return r0, args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, filter repository.CustomerFilter) ([]*entity.Customer, int64, error) {
	args := m.Called(ctx, filter)
	r0, _ := args.Get(0).([]*entity.Customer)
	r1, _ := args.Get(1).(int64)

	return r0, r1, args.Error(2)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	args := m.Called(ctx, customer)

	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	args := m.Called(ctx, customer)

	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter repository.CustomerFilter) (int64, error) {
	args := m.Called(ctx, filter)
	r0, _ := args.Get(0).(int64)

	return r0, args.Error(1)
}

func (m *MockCustomerRepository) CountGroupBy(ctx context.Context, filter repository.CustomerFilter, field repository.CustomerGroupField) ([]entity.CountBucket, error) {
	args := m.Called(ctx, filter, field)
	r0, _ := args.Get(0).([]entity.CountBucket)

	return r0, args.Error(1)
}
