package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCustomer_MoveToPublicPool(t *testing.T) {
	ownerID := uuid.New()
	salesID := uuid.New()
	agentID := uuid.New()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	c := &Customer{
		Name:           "Acme",
		Progress:       ProgressTesting,
		OwnerID:        ownerID,
		OwnerType:      RoleFactorySales,
		RelatedSalesID: &salesID,
		RelatedAgentID: &agentID,
	}

	c.MoveToPublicPool(now)

	assert.True(t, c.IsInPublicPool)
	assert.Nil(t, c.RelatedSalesID)
	assert.Nil(t, c.RelatedAgentID)
	assert.Equal(t, ProgressPublicPool, c.Progress)
	assert.Equal(t, &salesID, c.PreviousRelatedSalesID)
	assert.Equal(t, &agentID, c.PreviousRelatedAgentID)
	assert.Equal(t, ownerID, *c.PreviousOwnerID)
	assert.Equal(t, RoleFactorySales, c.PreviousOwnerType)
	assert.Equal(t, now, *c.EnterPoolTime)
}

func TestCustomer_AssignFromPool(t *testing.T) {
	agentID := uuid.New()
	c := &Customer{IsInPublicPool: true, Progress: ProgressPublicPool}
	c.MoveToPublicPool(time.Now())

	c.AssignFromPool(Relation{AgentID: &agentID}, time.Now())

	assert.False(t, c.IsInPublicPool)
	assert.Nil(t, c.EnterPoolTime)
	assert.Equal(t, &agentID, c.RelatedAgentID)
	assert.Equal(t, ProgressSampleEvaluation, c.Progress)
}

func TestCustomer_IsVisibleTo(t *testing.T) {
	salesID := uuid.New()
	agentID := uuid.New()
	c := &Customer{OwnerID: uuid.New(), RelatedSalesID: &salesID}

	assert.True(t, c.IsVisibleTo(Principal{ID: uuid.New(), Role: RoleSuperAdmin}))
	assert.True(t, c.IsVisibleTo(Principal{ID: salesID, Role: RoleFactorySales}))
	assert.False(t, c.IsVisibleTo(Principal{ID: uuid.New(), Role: RoleFactorySales}))
	assert.False(t, c.IsVisibleTo(Principal{ID: agentID, Role: RoleAgent}))
	assert.False(t, c.IsVisibleTo(Principal{ID: uuid.New(), Role: RoleInventoryManager}))

	c.RelatedAgentID = &agentID
	assert.True(t, c.IsVisibleTo(Principal{ID: agentID, Role: RoleAgent}))

	c.IsInPublicPool = true
	assert.False(t, c.IsVisibleTo(Principal{ID: salesID, Role: RoleFactorySales}))
}

func TestRelation_Equal(t *testing.T) {
	a := uuid.New()
	b := a

	assert.True(t, Relation{SalesID: &a}.Equal(Relation{SalesID: &b}))
	assert.False(t, Relation{SalesID: &a}.Equal(Relation{AgentID: &b}))
	assert.True(t, Relation{}.IsEmpty())
}

func TestPage_Normalize(t *testing.T) {
	assert.Equal(t, Page{Page: 1, PageSize: 20}, Page{}.Normalize())
	assert.Equal(t, 200, Page{Page: 2, PageSize: 1000}.Limit())
	assert.Equal(t, 40, Page{Page: 3, PageSize: 20}.Offset())
	assert.True(t, Page{}.IsZero())
}
