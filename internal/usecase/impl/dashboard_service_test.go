package impl

import (
	"context"
	"testing"
	"time"

	"crm/config"
	"crm/internal/domain/entity"
	"crm/internal/domain/repository"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestDashboardService(t *testing.T) (usecase.DashboardUsecase, repoMocks) {
	t.Helper()

	mocks := newRepoMocks(t)
	svc := NewDashboardService(DashboardServiceParams{
		CustomerRepo:  mocks.customers,
		ProductRepo:   mocks.products,
		InventoryRepo: mocks.inventory,
		UserRepo:      mocks.users,
		AgentRepo:     mocks.agents,
		Config: &config.Config{
			Dashboard: &config.DashboardConfig{TrendDays: 7, TopN: 5},
			Inventory: &config.InventoryConfig{LowStockThreshold: 50},
		},
		Logger: newDiscardLogger(),
	}).(*dashboardService)
	svc.now = func() time.Time { return fixedNow }

	return svc, mocks
}

func TestDashboardService_Stats_AdminSeesPendingCounts(t *testing.T) {
	svc, mocks := createTestDashboardService(t)
	admin := principal(entity.RoleSuperAdmin, "admin")

	mocks.customers.On("Count", mock.Anything, repository.CustomerFilter{}).Return(int64(12), nil).Once()
	mocks.customers.On("Count", mock.Anything, repository.CustomerFilter{InPublicPool: true}).Return(int64(3), nil).Once()
	mocks.products.On("Totals", mock.Anything).Return(int64(4), int64(900), nil).Once()
	mocks.agents.On("Count", mock.Anything, repository.AgentFilter{}).Return(int64(6), nil).Once()
	mocks.agents.On("Count", mock.Anything, repository.AgentFilter{Status: entity.StatusPending}).Return(int64(2), nil).Once()
	mocks.users.On("CountByStatus", mock.Anything, entity.StatusPending).Return(int64(1), nil).Once()
	mocks.inventory.On("CountSince", mock.Anything, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)).Return(int64(8), nil).Once()

	stats, err := svc.Stats(context.Background(), admin)
	require.NoError(t, err)

	assert.Equal(t, int64(12), stats.CustomerCount)
	assert.Equal(t, int64(3), stats.PublicPoolCount)
	assert.Equal(t, int64(4), stats.ProductCount)
	assert.Equal(t, int64(900), stats.TotalStock)
	assert.Equal(t, int64(6), stats.AgentCount)
	assert.Equal(t, int64(8), stats.TodayInventoryOpCount)
	require.NotNil(t, stats.PendingUserCount)
	require.NotNil(t, stats.PendingAgentCount)
	assert.Equal(t, int64(1), *stats.PendingUserCount)
	assert.Equal(t, int64(2), *stats.PendingAgentCount)
}

func TestDashboardService_Stats_InventoryManagerSkipsCustomersAndPending(t *testing.T) {
	svc, mocks := createTestDashboardService(t)
	manager := principal(entity.RoleInventoryManager, "warehouse")

	mocks.customers.On("Count", mock.Anything, repository.CustomerFilter{InPublicPool: true}).Return(int64(3), nil).Once()
	mocks.products.On("Totals", mock.Anything).Return(int64(4), int64(900), nil).Once()
	mocks.agents.On("Count", mock.Anything, repository.AgentFilter{}).Return(int64(6), nil).Once()
	mocks.inventory.On("CountSince", mock.Anything, mock.Anything).Return(int64(0), nil).Once()

	stats, err := svc.Stats(context.Background(), manager)
	require.NoError(t, err)

	assert.Zero(t, stats.CustomerCount)
	assert.Nil(t, stats.PendingUserCount)
	assert.Nil(t, stats.PendingAgentCount)
}

func TestDashboardService_Overview_ScopesCustomersAndUsesConfig(t *testing.T) {
	svc, mocks := createTestDashboardService(t)
	sales := principal(entity.RoleFactorySales, "bob")
	scope := repository.CustomerFilter{VisibleToSalesID: &sales.ID}

	mocks.customers.On("CountGroupBy", mock.Anything, scope, repository.GroupByProgress).
		Return([]entity.CountBucket{{Label: string(entity.ProgressTesting), Count: 2}}, nil).Once()
	mocks.customers.On("CountGroupBy", mock.Anything, scope, repository.GroupByImportance).Return([]entity.CountBucket{}, nil).Once()
	mocks.customers.On("CountGroupBy", mock.Anything, scope, repository.GroupByNature).Return([]entity.CountBucket{}, nil).Once()
	mocks.products.On("TopByStock", mock.Anything, 5).
		Return([]*entity.Product{{ID: uuid.New(), ModelName: "X1", PackageType: "SOT23", Stock: 70}}, nil).Once()
	mocks.products.On("LowStock", mock.Anything, int64(50), 5).Return([]*entity.Product{}, nil).Once()
	mocks.inventory.On("DailyFlow", mock.Anything, time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)).
		Return([]entity.DailyStockFlow{{Date: "2024-05-20", In: 100, Out: 30}}, nil).Once()

	overview, err := svc.Overview(context.Background(), sales)
	require.NoError(t, err)

	require.Len(t, overview.CustomersByProgress, 1)
	assert.Equal(t, int64(2), overview.CustomersByProgress[0].Count)
	require.Len(t, overview.TopStockProducts, 1)
	assert.Equal(t, "X1", overview.TopStockProducts[0].ModelName)
	assert.Empty(t, overview.LowStockProducts)
	assert.Equal(t, []entity.DailyStockFlow{{Date: "2024-05-20", In: 100, Out: 30}}, overview.StockTrend)
}

func TestDashboardService_Overview_PropagatesFailure(t *testing.T) {
	svc, mocks := createTestDashboardService(t)
	manager := principal(entity.RoleInventoryManager, "warehouse")

	mocks.products.On("TopByStock", mock.Anything, 5).Return(nil, errors.New("connection refused")).Maybe()
	mocks.products.On("LowStock", mock.Anything, int64(50), 5).Return([]*entity.Product{}, nil).Maybe()
	mocks.inventory.On("DailyFlow", mock.Anything, mock.Anything).Return([]entity.DailyStockFlow{}, nil).Maybe()

	_, err := svc.Overview(context.Background(), manager)
	assert.ErrorContains(t, err, "connection refused")
}
