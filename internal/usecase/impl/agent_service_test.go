package impl

import (
	"context"
	"testing"

	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"
	mockSvc "crm/internal/mocks/service"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestAgentService(t *testing.T) (usecase.AgentUsecase, repoMocks, *mockSvc.MockPasswordHasher) {
	t.Helper()

	mocks := newRepoMocks(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	svc := NewAgentService(AgentServiceParams{
		AgentRepo: mocks.agents,
		UserRepo:  mocks.users,
		Hasher:    hasher,
		Logger:    newDiscardLogger(),
	})

	return svc, mocks, hasher
}

func TestAgentService_Create_BySalesIsPendingAndRelated(t *testing.T) {
	svc, mocks, hasher := createTestAgentService(t)
	sales := principal(entity.RoleFactorySales, "bob")
	other := uuid.New()

	hasher.On("ValidatePasswordStrength", "secret1").Return(nil).Once()
	hasher.On("Hash", "secret1").Return("hash", nil).Once()
	mocks.agents.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	agent, err := svc.Create(context.Background(), sales, usecase.CreateAgentInput{
		CompanyName:    "Acme Trading",
		Password:       "secret1",
		RelatedSalesID: &other,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPending, agent.Status)
	assert.Equal(t, &sales.ID, agent.RelatedSalesID)
	assert.Equal(t, &sales.ID, agent.CreatorID)
}

func TestAgentService_List_SalesSeesOwnAgents(t *testing.T) {
	svc, mocks, _ := createTestAgentService(t)
	sales := principal(entity.RoleFactorySales, "bob")
	agent := approvedAgent(uuid.New(), "Acme Trading", &sales.ID)

	mocks.agents.On("List", mock.Anything, mock.MatchedBy(func(f repository.AgentFilter) bool {
		return f.RelatedSalesID != nil && *f.RelatedSalesID == sales.ID
	})).Return([]*entity.Agent{agent}, int64(1), nil).Once()
	mocks.users.On("FindByIDs", mock.Anything, []uuid.UUID{sales.ID}).Return([]*entity.User{approvedSales(sales)}, nil).Once()

	page, err := svc.List(context.Background(), sales, repository.AgentFilter{})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "bob", page.Items[0].RelatedSalesName)
}

func TestAgentService_Get_OtherSalesForbidden(t *testing.T) {
	svc, mocks, _ := createTestAgentService(t)
	owner := uuid.New()
	agent := approvedAgent(uuid.New(), "Acme Trading", &owner)
	mocks.agents.On("FindByID", mock.Anything, agent.ID).Return(agent, nil).Once()

	_, err := svc.Get(context.Background(), principal(entity.RoleFactorySales, "carol"), agent.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestAgentService_Reject_StoresReason(t *testing.T) {
	svc, mocks, _ := createTestAgentService(t)
	agent := &entity.Agent{ID: uuid.New(), Status: entity.StatusPending}
	mocks.agents.On("FindByID", mock.Anything, agent.ID).Return(agent, nil).Once()
	mocks.agents.On("Update", mock.Anything, agent).Return(nil).Once()

	rejected, err := svc.Reject(context.Background(), agent.ID, " 营业执照缺失 ")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusRejected, rejected.Status)
	assert.Equal(t, "营业执照缺失", rejected.RejectReason)
}
