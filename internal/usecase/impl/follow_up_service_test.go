package impl

import (
	"context"
	"testing"

	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestFollowUpService(t *testing.T) (usecase.FollowUpUsecase, repoMocks) {
	t.Helper()

	mocks := newRepoMocks(t)

	return NewFollowUpService(FollowUpServiceParams{
		FollowUpRepo: mocks.followUps,
		CustomerRepo: mocks.customers,
		Logger:       newDiscardLogger(),
	}), mocks
}

func TestFollowUpService_Create_OnVisibleCustomer(t *testing.T) {
	svc, mocks := createTestFollowUpService(t)
	sales := principal(entity.RoleFactorySales, "bob")
	customer := &entity.Customer{ID: uuid.New(), OwnerID: sales.ID}

	mocks.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil).Once()
	mocks.followUps.On("Create", mock.Anything, mock.MatchedBy(func(r *entity.FollowUpRecord) bool {
		return r.CreatorID == sales.ID && r.CreatorName == "bob" && r.CreatorType == entity.RoleFactorySales
	})).Return(nil).Once()

	record, err := svc.Create(context.Background(), sales, usecase.FollowUpInput{CustomerID: customer.ID, Title: " Visit ", Content: "Sent samples"})
	require.NoError(t, err)
	assert.Equal(t, "Visit", record.Title)
}

func TestFollowUpService_Create_HiddenCustomer(t *testing.T) {
	svc, mocks := createTestFollowUpService(t)
	customer := &entity.Customer{ID: uuid.New(), OwnerID: uuid.New()}
	mocks.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil).Once()

	_, err := svc.Create(context.Background(), principal(entity.RoleAgent, "Acme"), usecase.FollowUpInput{CustomerID: customer.ID, Title: "t", Content: "c"})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestFollowUpService_UpdateAndDeletePermissions(t *testing.T) {
	ctx := context.Background()
	creator := principal(entity.RoleFactorySales, "bob")
	admin := principal(entity.RoleSuperAdmin, "admin")

	newRecord := func() *entity.FollowUpRecord {
		return &entity.FollowUpRecord{ID: uuid.New(), CustomerID: uuid.New(), Title: "t", Content: "c", CreatorID: creator.ID}
	}

	t.Run("admin cannot edit someone else's note", func(t *testing.T) {
		svc, mocks := createTestFollowUpService(t)
		record := newRecord()
		mocks.followUps.On("FindByID", mock.Anything, record.ID).Return(record, nil).Once()

		_, err := svc.Update(ctx, admin, record.ID, usecase.FollowUpInput{Title: "x", Content: "y"})
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})

	t.Run("creator edits", func(t *testing.T) {
		svc, mocks := createTestFollowUpService(t)
		record := newRecord()
		mocks.followUps.On("FindByID", mock.Anything, record.ID).Return(record, nil).Once()
		mocks.followUps.On("Update", mock.Anything, record).Return(nil).Once()

		updated, err := svc.Update(ctx, creator, record.ID, usecase.FollowUpInput{Title: "x", Content: "y"})
		require.NoError(t, err)
		assert.Equal(t, "x", updated.Title)
	})

	t.Run("admin deletes", func(t *testing.T) {
		svc, mocks := createTestFollowUpService(t)
		record := newRecord()
		mocks.followUps.On("FindByID", mock.Anything, record.ID).Return(record, nil).Once()
		mocks.followUps.On("Delete", mock.Anything, record.ID).Return(nil).Once()

		assert.NoError(t, svc.Delete(ctx, admin, record.ID))
	})

	t.Run("other sales cannot delete", func(t *testing.T) {
		svc, mocks := createTestFollowUpService(t)
		record := newRecord()
		mocks.followUps.On("FindByID", mock.Anything, record.ID).Return(record, nil).Once()

		assert.ErrorIs(t, svc.Delete(ctx, principal(entity.RoleFactorySales, "carol"), record.ID), domainerrors.ErrForbidden)
	})
}

func TestHistoryService_NonAdminNeedsVisibleCustomer(t *testing.T) {
	mocks := newRepoMocks(t)
	svc := NewHistoryService(HistoryServiceParams{HistoryRepo: mocks.histories, CustomerRepo: mocks.customers})
	ctx := context.Background()
	sales := principal(entity.RoleFactorySales, "bob")

	_, err := svc.ListAssignments(ctx, sales, nil, entity.Page{})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	customer := &entity.Customer{ID: uuid.New(), RelatedSalesID: &sales.ID}
	mocks.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil).Once()
	mocks.histories.On("ListProgress", mock.Anything, &customer.ID, entity.Page{Page: 1, PageSize: 20}).
		Return([]*entity.CustomerProgressHistory{{CustomerID: customer.ID}}, int64(1), nil).Once()

	page, err := svc.ListProgress(ctx, sales, &customer.ID, entity.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	mocks.histories.On("ListAssignments", mock.Anything, (*uuid.UUID)(nil), entity.Page{Page: 2, PageSize: 20}).
		Return([]*entity.CustomerAssignmentHistory{}, int64(0), nil).Once()
	_, err = svc.ListAssignments(ctx, principal(entity.RoleSuperAdmin, "admin"), nil, entity.Page{Page: 2})
	require.NoError(t, err)
}
