package repository

import (
	"context"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAgentRepository is a testify mock of repository.AgentRepository.
type MockAgentRepository struct {
	mock.Mock
}

// NewMockAgentRepository creates a mock that asserts its expectations when the test ends.
func NewMockAgentRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAgentRepository {
	m := &MockAgentRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ repository.AgentRepository = (*MockAgentRepository)(nil)

func (m *MockAgentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Agent, error) {
	args := m.Called(ctx, id)
	r0, _ := args.Get(0).(*entity.Agent)

	return r0, args.Error(1)
}

func (m *MockAgentRepository) FindByCompanyName(ctx context.Context, companyName string) (*entity.Agent, error) {
	args := m.Called(ctx, companyName)
	r0, _ := args.Get(0).(*entity.Agent)

	return r0, args.Error(1)
}

func (m *MockAgentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Agent, error) {
	args := m.Called(ctx, ids)
	r0, _ := args.Get(0).([]*entity.Agent)

	return r0, args.Error(1)
}

func (m *MockAgentRepository) List(ctx context.Context, filter repository.AgentFilter) ([]*entity.Agent, int64, error) {
	args := m.Called(ctx, filter)
	r0, _ := args.Get(0).([]*entity.Agent)
	r1, _ := args.Get(1).(int64)

	return r0, r1, args.Error(2)
}

func (m *MockAgentRepository) Create(ctx context.Context, agent *entity.Agent) error {
	args := m.Called(ctx, agent)

	return args.Error(0)
}

func (m *MockAgentRepository) Update(ctx context.Context, agent *entity.Agent) error {
	args := m.Called(ctx, agent)

	return args.Error(0)
}

func (m *MockAgentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockAgentRepository) Count(ctx context.Context, filter repository.AgentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	r0, _ := args.Get(0).(int64)

	return r0, args.Error(1)
}
