package repository

import (
	"context"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockHistoryRepository is a testify mock of repository.HistoryRepository.
type MockHistoryRepository struct {
	mock.Mock
}

// NewMockHistoryRepository creates a mock that asserts its expectations when the test ends.
func NewMockHistoryRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHistoryRepository {
	m := &MockHistoryRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ repository.HistoryRepository = (*MockHistoryRepository)(nil)

func (m *MockHistoryRepository) CreateAssignment(ctx context.Context, history *entity.CustomerAssignmentHistory) error {
	args := m.Called(ctx, history)

	return args.Error(0)
}

func (m *MockHistoryRepository) CreateProgress(ctx context.Context, history *entity.CustomerProgressHistory) error {
	args := m.Called(ctx, history)

	return args.Error(0)
}

func (m *MockHistoryRepository) ListAssignments(ctx context.Context, customerID *uuid.UUID, page entity.Page) ([]*entity.CustomerAssignmentHistory, int64, error) {
	args := m.Called(ctx, customerID, page)
	r0, _ := args.Get(0).([]*entity.CustomerAssignmentHistory)
	r1, _ := args.Get(1).(int64)

	return r0, r1, args.Error(2)
}

func (m *MockHistoryRepository) ListProgress(ctx context.Context, customerID *uuid.UUID, page entity.Page) ([]*entity.CustomerProgressHistory, int64, error) {
	args := m.Called(ctx, customerID, page)
	r0, _ := args.Get(0).([]*entity.CustomerProgressHistory)
	r1, _ := args.Get(1).(int64)

	return r0, r1, args.Error(2)
}
