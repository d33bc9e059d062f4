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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type publicPoolFixtures struct {
	repoMocks
	service *publicPoolService
}

func createTestPublicPoolService(t *testing.T) publicPoolFixtures {
	t.Helper()

	mocks := newRepoMocks(t)
	svc := NewPublicPoolService(PublicPoolServiceParams{
		TxManager:    mocks.txManager,
		CustomerRepo: mocks.customers,
		UserRepo:     mocks.users,
		AgentRepo:    mocks.agents,
		Logger:       newDiscardLogger(),
	}).(*publicPoolService)
	svc.now = func() time.Time { return fixedNow }

	return publicPoolFixtures{repoMocks: mocks, service: svc}
}

func pooledCustomer() *entity.Customer {
	entered := fixedNow.Add(-48 * time.Hour)
	prevOwner := uuid.New()

	return &entity.Customer{
		ID:                uuid.New(),
		Name:              "Pooled Co",
		ContactPhone:      "13800000000",
		Progress:          entity.ProgressPublicPool,
		OwnerID:           prevOwner,
		OwnerType:         entity.RoleFactorySales,
		IsInPublicPool:    true,
		EnterPoolTime:     &entered,
		PreviousOwnerID:   &prevOwner,
		PreviousOwnerType: entity.RoleFactorySales,
	}
}

func TestPublicPoolService_AssignToAgent(t *testing.T) {
	f := createTestPublicPoolService(t)
	ctx := context.Background()

	admin := principal(entity.RoleSuperAdmin, "admin")
	salesID := uuid.New()
	agentID := uuid.New()
	agent := approvedAgent(agentID, "Acme Trading", &salesID)
	customer := pooledCustomer()

	f.agents.On("FindByID", mock.Anything, agentID).Return(agent, nil).Once()
	f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil).Once()
	f.users.On("FindByIDs", mock.Anything, []uuid.UUID{salesID}).
		Return([]*entity.User{{ID: salesID, Username: "bob"}}, nil).Once()
	f.agents.On("FindByIDs", mock.Anything, []uuid.UUID{agentID}).Return([]*entity.Agent{agent}, nil).Once()
	f.customers.On("Update", mock.Anything, customer).Return(nil).Once()

	var assignment *entity.CustomerAssignmentHistory
	f.histories.On("CreateAssignment", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { assignment = args.Get(1).(*entity.CustomerAssignmentHistory) }).
		Return(nil).Once()
	f.histories.On("CreateProgress", mock.Anything, mock.MatchedBy(func(h *entity.CustomerProgressHistory) bool {
		return h.FromProgress == string(entity.ProgressPublicPool) && h.ToProgress == string(entity.ProgressSampleEvaluation)
	})).Return(nil).Once()

	assigned, err := f.service.Assign(ctx, admin, customer.ID, usecase.AssignInput{
		TargetType: entity.RoleAgent,
		TargetID:   agentID,
		Remark:     "regional fit",
	})
	require.NoError(t, err)

	assert.False(t, assigned.IsInPublicPool)
	assert.Nil(t, assigned.EnterPoolTime)
	assert.Equal(t, entity.ProgressSampleEvaluation, assigned.Progress)
	assert.Equal(t, &agentID, assigned.RelatedAgentID)
	assert.Equal(t, &salesID, assigned.RelatedSalesID)
	assert.Equal(t, agentID, assigned.OwnerID)
	assert.Equal(t, entity.RoleAgent, assigned.OwnerType)

	require.NotNil(t, assignment)
	assert.Equal(t, entity.AssignmentPoolAssign, assignment.OperationType)
	assert.Nil(t, assignment.FromSalesID)
	assert.Nil(t, assignment.FromAgentID)
	assert.Equal(t, "Acme Trading", assignment.ToAgentName)
	assert.Equal(t, "bob", assignment.ToSalesName)
	assert.Equal(t, "regional fit", assignment.Remark)
}

func TestPublicPoolService_ClaimBySales(t *testing.T) {
	f := createTestPublicPoolService(t)
	ctx := context.Background()

	sales := principal(entity.RoleFactorySales, "carol")
	customer := pooledCustomer()

	f.users.On("FindByID", mock.Anything, sales.ID).Return(approvedSales(sales), nil).Once()
	f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil).Once()
	f.users.On("FindByIDs", mock.Anything, []uuid.UUID{sales.ID}).Return([]*entity.User{approvedSales(sales)}, nil).Once()
	f.customers.On("Update", mock.Anything, customer).Return(nil).Once()
	f.histories.On("CreateAssignment", mock.Anything, mock.MatchedBy(func(h *entity.CustomerAssignmentHistory) bool {
		return h.OperationType == entity.AssignmentPoolClaim && h.ToSalesName == "carol" && h.OperatorName == "carol"
	})).Return(nil).Once()
	f.histories.On("CreateProgress", mock.Anything, mock.Anything).Return(nil).Once()

	claimed, err := f.service.Claim(ctx, sales, customer.ID)
	require.NoError(t, err)

	assert.Equal(t, &sales.ID, claimed.RelatedSalesID)
	assert.Nil(t, claimed.RelatedAgentID)
	assert.Equal(t, sales.ID, claimed.OwnerID)
}

func TestPublicPoolService_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("assign needs admin", func(t *testing.T) {
		f := createTestPublicPoolService(t)
		_, err := f.service.Assign(ctx, principal(entity.RoleFactorySales, "bob"), uuid.New(), usecase.AssignInput{TargetType: entity.RoleFactorySales, TargetID: uuid.New()})
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})

	t.Run("inventory manager cannot claim", func(t *testing.T) {
		f := createTestPublicPoolService(t)
		_, err := f.service.Claim(ctx, principal(entity.RoleInventoryManager, "wh"), uuid.New())
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})

	t.Run("target must be sales or agent", func(t *testing.T) {
		f := createTestPublicPoolService(t)
		_, err := f.service.Assign(ctx, principal(entity.RoleSuperAdmin, "admin"), uuid.New(), usecase.AssignInput{TargetType: entity.RoleInventoryManager, TargetID: uuid.New()})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidAssignTarget)
	})

	t.Run("pending sales is not a target", func(t *testing.T) {
		f := createTestPublicPoolService(t)
		salesID := uuid.New()
		f.users.On("FindByID", mock.Anything, salesID).
			Return(&entity.User{ID: salesID, Role: entity.RoleFactorySales, Status: entity.StatusPending}, nil).Once()

		_, err := f.service.Assign(ctx, principal(entity.RoleSuperAdmin, "admin"), uuid.New(), usecase.AssignInput{TargetType: entity.RoleFactorySales, TargetID: salesID})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidAssignTarget)
	})

	t.Run("customer not in pool", func(t *testing.T) {
		f := createTestPublicPoolService(t)
		sales := principal(entity.RoleFactorySales, "bob")
		customer := &entity.Customer{ID: uuid.New(), RelatedSalesID: &sales.ID}
		f.users.On("FindByID", mock.Anything, sales.ID).Return(approvedSales(sales), nil).Once()
		f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil).Once()

		_, err := f.service.Claim(ctx, sales, customer.ID)
		assert.ErrorIs(t, err, domainerrors.ErrCustomerNotInPublicPool)
	})
}

func TestPublicPoolService_ListHidesContactAndNamesPreviousOwner(t *testing.T) {
	f := createTestPublicPoolService(t)
	customer := pooledCustomer()

	f.customers.On("List", mock.Anything, mock.MatchedBy(func(filter repository.CustomerFilter) bool {
		return filter.InPublicPool && filter.VisibleToSalesID == nil && filter.VisibleToAgentID == nil
	})).Return([]*entity.Customer{customer}, int64(1), nil).Once()
	f.users.On("FindByIDs", mock.Anything, []uuid.UUID{*customer.PreviousOwnerID}).
		Return([]*entity.User{{ID: *customer.PreviousOwnerID, Username: "dave"}}, nil).Once()

	page, err := f.service.List(context.Background(), usecase.CustomerQuery{})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	item := page.Items[0]
	assert.Equal(t, customer.ID, item.ID)
	assert.Equal(t, "dave", item.PreviousOwnerName)
	assert.Equal(t, customer.EnterPoolTime, item.EnterPoolTime)
}
