package repository

import (
	"context"

	"crm/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// MockTransactionManager runs the callback against Factory unless an error is stubbed.
// Expectations are optional; without one, Execute simply invokes fn.
type MockTransactionManager struct {
	mock.Mock

	Factory repository.RepositoryFactory
}

// NewMockTransactionManager creates a transaction manager bound to factory.
func NewMockTransactionManager(t interface {
	mock.TestingT
	Cleanup(func())
}, factory repository.RepositoryFactory) *MockTransactionManager {
	m := &MockTransactionManager{Factory: factory}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ repository.TransactionManager = (*MockTransactionManager)(nil)

func (m *MockTransactionManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	if len(m.ExpectedCalls) > 0 {
		args := m.Called(ctx, mock.Anything)
		if err := args.Error(0); err != nil {
			return err
		}
	}

	return fn(m.Factory)
}

// RepositoryFactory hands out the same mocks the non-transactional service uses.
type RepositoryFactory struct {
	Users     *MockUserRepository
	Agents    *MockAgentRepository
	Customers *MockCustomerRepository
	Products  *MockProductRepository
	Inventory *MockInventoryRepository
	Histories *MockHistoryRepository
	FollowUps *MockFollowUpRepository
}

var _ repository.RepositoryFactory = (*RepositoryFactory)(nil)

func (f *RepositoryFactory) NewUserRepository() repository.UserRepository {
	return f.Users
}

func (f *RepositoryFactory) NewAgentRepository() repository.AgentRepository {
	return f.Agents
}

func (f *RepositoryFactory) NewCustomerRepository() repository.CustomerRepository {
	return f.Customers
}

func (f *RepositoryFactory) NewProductRepository() repository.ProductRepository {
	return f.Products
}

func (f *RepositoryFactory) NewInventoryRepository() repository.InventoryRepository {
	return f.Inventory
}

func (f *RepositoryFactory) NewHistoryRepository() repository.HistoryRepository {
	return f.Histories
}

func (f *RepositoryFactory) NewFollowUpRepository() repository.FollowUpRepository {
	return f.FollowUps
}
