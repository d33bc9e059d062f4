package impl

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"crm/internal/domain/entity"
	mockRepo "crm/internal/mocks/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// repoMocks bundles every repository mock; the transaction manager hands out the same instances.
type repoMocks struct {
	users     *mockRepo.MockUserRepository
	agents    *mockRepo.MockAgentRepository
	customers *mockRepo.MockCustomerRepository
	products  *mockRepo.MockProductRepository
	inventory *mockRepo.MockInventoryRepository
	histories *mockRepo.MockHistoryRepository
	followUps *mockRepo.MockFollowUpRepository
	txManager *mockRepo.MockTransactionManager
}

func newRepoMocks(t *testing.T) repoMocks {
	t.Helper()

	m := repoMocks{
		users:     mockRepo.NewMockUserRepository(t),
		agents:    mockRepo.NewMockAgentRepository(t),
		customers: mockRepo.NewMockCustomerRepository(t),
		products:  mockRepo.NewMockProductRepository(t),
		inventory: mockRepo.NewMockInventoryRepository(t),
		histories: mockRepo.NewMockHistoryRepository(t),
		followUps: mockRepo.NewMockFollowUpRepository(t),
	}
	m.txManager = mockRepo.NewMockTransactionManager(t, &mockRepo.RepositoryFactory{
		Users:     m.users,
		Agents:    m.agents,
		Customers: m.customers,
		Products:  m.products,
		Inventory: m.inventory,
		Histories: m.histories,
		FollowUps: m.followUps,
	})

	return m
}

func principal(role entity.Role, username string) entity.Principal {
	return entity.Principal{ID: uuid.New(), Role: role, Username: username}
}

func approvedSales(p entity.Principal) *entity.User {
	return &entity.User{ID: p.ID, Username: p.Username, Role: entity.RoleFactorySales, Status: entity.StatusApproved}
}

func approvedAgent(id uuid.UUID, name string, salesID *uuid.UUID) *entity.Agent {
	return &entity.Agent{ID: id, CompanyName: name, RelatedSalesID: salesID, Status: entity.StatusApproved}
}

func sevenTiers() entity.Pricing {
	pricing := make(entity.Pricing, 0, entity.PriceTierCount)
	for i := range entity.PriceTierCount {
		pricing = append(pricing, entity.PriceTier{
			Quantity: int64(i * 1000),
			Price:    decimal.NewFromFloat(1.5).Sub(decimal.NewFromFloat(0.1).Mul(decimal.NewFromInt(int64(i)))),
		})
	}

	return pricing
}
