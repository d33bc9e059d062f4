package entity

import (
	"time"

	"github.com/google/uuid"
)

// Agent is an external sales company that logs in with its company name.
type Agent struct {
	ID             uuid.UUID      `json:"id"`
	CompanyName    string         `json:"companyName"`
	PasswordHash   string         `json:"-"`
	ContactPerson  string         `json:"contactPerson"`
	Phone          string         `json:"phone"`
	RelatedSalesID *uuid.UUID     `json:"relatedSalesId,omitempty"`
	Status         ApprovalStatus `json:"status"`
	RejectReason   string         `json:"rejectReason,omitempty"`
	CreatorID      *uuid.UUID     `json:"creatorId,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Principal returns the identity carried in access tokens.
func (a *Agent) Principal() Principal {
	return Principal{ID: a.ID, Role: RoleAgent, Username: a.CompanyName}
}
