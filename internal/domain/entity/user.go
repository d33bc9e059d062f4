package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an internal staff account: super admin, factory sales or inventory manager.
type User struct {
	ID           uuid.UUID      `json:"id"`
	Username     string         `json:"username"`
	PasswordHash string         `json:"-"`
	Phone        string         `json:"phone"`
	Role         Role           `json:"role"`
	Status       ApprovalStatus `json:"status"`
	RejectReason string         `json:"rejectReason,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Principal returns the identity carried in access tokens.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role, Username: u.Username}
}
