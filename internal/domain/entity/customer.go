package entity

import (
	"time"

	"github.com/google/uuid"
)

// CustomerNature is the ownership type of a customer company.
type CustomerNature string

const (
	NaturePrivate      CustomerNature = "民营企业"
	NatureStateOwned   CustomerNature = "国有企业"
	NatureForeign      CustomerNature = "外资企业"
	NatureJointVenture CustomerNature = "合资企业"
	NatureOther        CustomerNature = "其他"
)

// IsValid checks if the nature is a known value.
func (n CustomerNature) IsValid() bool {
	switch n {
	case NaturePrivate, NatureStateOwned, NatureForeign, NatureJointVenture, NatureOther:
		return true
	default:
		return false
	}
}

// CustomerImportance ranks customers for follow-up priority.
type CustomerImportance string

const (
	ImportanceA CustomerImportance = "A类"
	ImportanceB CustomerImportance = "B类"
	ImportanceC CustomerImportance = "C类"
)

// IsValid checks if the importance is a known value.
func (i CustomerImportance) IsValid() bool {
	switch i {
	case ImportanceA, ImportanceB, ImportanceC:
		return true
	default:
		return false
	}
}

// CustomerProgress is the lifecycle stage of a customer.
type CustomerProgress string

const (
	ProgressSampleEvaluation CustomerProgress = "样板评估"
	ProgressTesting          CustomerProgress = "测试验证"
	ProgressSmallBatch       CustomerProgress = "小批量"
	ProgressMassProduction   CustomerProgress = "批量出货"
	// ProgressPublicPool marks customers waiting in the public pool.
	ProgressPublicPool CustomerProgress = "公海"
)

// ProgressNone is the "from" value of the first progress history entry.
const ProgressNone = "无"

// IsValid checks if the progress is a known value.
func (p CustomerProgress) IsValid() bool {
	switch p {
	case ProgressSampleEvaluation, ProgressTesting, ProgressSmallBatch, ProgressMassProduction, ProgressPublicPool:
		return true
	default:
		return false
	}
}

// IsAssignable reports whether the progress may be set on an assigned customer.
func (p CustomerProgress) IsAssignable() bool {
	return p.IsValid() && p != ProgressPublicPool
}

// Customer is a prospect or client company tracked by the sales organisation.
type Customer struct {
	ID               uuid.UUID          `json:"id"`
	Name             string             `json:"name"`
	Nature           CustomerNature     `json:"nature"`
	Importance       CustomerImportance `json:"importance"`
	ApplicationField string             `json:"applicationField"`
	Progress         CustomerProgress   `json:"progress"`
	Address          string             `json:"address"`
	ContactName      string             `json:"contactName"`
	ContactPhone     string             `json:"contactPhone"`
	ProductNeeds     []string           `json:"productNeeds"`
	AnnualDemand     int64              `json:"annualDemand"`
	Remark           string             `json:"remark"`

	OwnerID   uuid.UUID `json:"ownerId"`
	OwnerType Role      `json:"ownerType"`

	RelatedSalesID *uuid.UUID `json:"relatedSalesId,omitempty"`
	RelatedAgentID *uuid.UUID `json:"relatedAgentId,omitempty"`

	IsInPublicPool         bool       `json:"isInPublicPool"`
	EnterPoolTime          *time.Time `json:"enterPoolTime,omitempty"`
	PreviousOwnerID        *uuid.UUID `json:"previousOwnerId,omitempty"`
	PreviousOwnerType      Role       `json:"previousOwnerType,omitempty"`
	PreviousRelatedSalesID *uuid.UUID `json:"previousRelatedSalesId,omitempty"`
	PreviousRelatedAgentID *uuid.UUID `json:"previousRelatedAgentId,omitempty"`

	LastUpdateTime time.Time `json:"lastUpdateTime"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Relation is the sales/agent pair a customer is assigned to.
type Relation struct {
	SalesID *uuid.UUID
	AgentID *uuid.UUID
}

// IsEmpty reports whether neither side of the relation is set.
func (r Relation) IsEmpty() bool {
	return r.SalesID == nil && r.AgentID == nil
}

// Equal compares two relations by id.
func (r Relation) Equal(other Relation) bool {
	return sameID(r.SalesID, other.SalesID) && sameID(r.AgentID, other.AgentID)
}

// Relation returns the customer's current assignment.
func (c *Customer) Relation() Relation {
	return Relation{SalesID: c.RelatedSalesID, AgentID: c.RelatedAgentID}
}

// MoveToPublicPool clears the assignment and parks the customer in the public pool.
// The previous owner and relation are kept for audit.
func (c *Customer) MoveToPublicPool(now time.Time) {
	ownerID := c.OwnerID
	c.PreviousOwnerID = &ownerID
	c.PreviousOwnerType = c.OwnerType
	c.PreviousRelatedSalesID = c.RelatedSalesID
	c.PreviousRelatedAgentID = c.RelatedAgentID

	c.RelatedSalesID = nil
	c.RelatedAgentID = nil
	c.Progress = ProgressPublicPool
	c.IsInPublicPool = true
	c.EnterPoolTime = &now
	c.LastUpdateTime = now
}

// AssignFromPool takes the customer out of the public pool and gives it to a new relation.
func (c *Customer) AssignFromPool(relation Relation, now time.Time) {
	c.RelatedSalesID = relation.SalesID
	c.RelatedAgentID = relation.AgentID
	c.IsInPublicPool = false
	c.EnterPoolTime = nil
	c.Progress = ProgressSampleEvaluation
	c.LastUpdateTime = now
}

// IsVisibleTo applies the per-role visibility rule for assigned customers.
func (c *Customer) IsVisibleTo(p Principal) bool {
	if c.IsInPublicPool {
		return false
	}

	switch p.Role {
	case RoleSuperAdmin:
		return true
	case RoleFactorySales:
		return c.OwnerID == p.ID || sameID(c.RelatedSalesID, &p.ID)
	case RoleAgent:
		return c.OwnerID == p.ID || sameID(c.RelatedAgentID, &p.ID)
	default:
		return false
	}
}

// CanBeDeletedBy allows deletion by super admins and the creating owner.
func (c *Customer) CanBeDeletedBy(p Principal) bool {
	return p.IsAdmin() || c.OwnerID == p.ID
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}
