package repository

import (
	"context"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockFollowUpRepository is a testify mock of repository.FollowUpRepository.
type MockFollowUpRepository struct {
	mock.Mock
}

// NewMockFollowUpRepository creates a mock that asserts its expectations when the test ends.
func NewMockFollowUpRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFollowUpRepository {
	m := &MockFollowUpRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ repository.FollowUpRepository = (*MockFollowUpRepository)(nil)

func (m *MockFollowUpRepository) Create(ctx context.Context, record *entity.FollowUpRecord) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}

func (m *MockFollowUpRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.FollowUpRecord, error) {
	args := m.Called(ctx, id)
	r0, _ := args.Get(0).(*entity.FollowUpRecord)

	return r0, args.Error(1)
}

func (m *MockFollowUpRepository) Update(ctx context.Context, record *entity.FollowUpRecord) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}

func (m *MockFollowUpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockFollowUpRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, page entity.Page) ([]*entity.FollowUpRecord, int64, error) {
	args := m.Called(ctx, customerID, page)
	r0, _ := args.Get(0).([]*entity.FollowUpRecord)
	r1, _ := args.Get(1).(int64)

	return r0, r1, args.Error(2)
}
