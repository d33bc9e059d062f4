// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// AccountType selects which table a login is checked against.
type AccountType string

const (
	AccountTypeUser  AccountType = "user"
	AccountTypeAgent AccountType = "agent"
)

// --- Input DTOs ---

// RegisterUserInput defines the data required for staff self-registration.
type RegisterUserInput struct {
	Username string
	Password string
	Phone    string
	Role     entity.Role
}

// RegisterAgentInput defines the data required for agent self-registration.
type RegisterAgentInput struct {
	CompanyName    string
	Password       string
	ContactPerson  string
	Phone          string
	RelatedSalesID *uuid.UUID
}

// LoginInput defines the credentials of a login attempt.
type LoginInput struct {
	Username    string
	Password    string
	AccountType AccountType
}

// ChangePasswordInput carries the current and the new password.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// --- Output DTOs ---

// Profile is the account view returned by login and /me.
type Profile struct {
	ID             uuid.UUID             `json:"id"`
	Username       string                `json:"username"`
	Role           entity.Role           `json:"role"`
	AccountType    AccountType           `json:"userType"`
	Phone          string                `json:"phone"`
	Status         entity.ApprovalStatus `json:"status"`
	ContactPerson  string                `json:"contactPerson,omitempty"`
	RelatedSalesID *uuid.UUID            `json:"relatedSalesId,omitempty"`
}

// LoginOutput returns the access token after a successful login.
type LoginOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Profile   *Profile  `json:"user"`
}

// AuthUsecase covers registration, login and self-service account operations.
type AuthUsecase interface {
	RegisterUser(ctx context.Context, input RegisterUserInput) (*entity.User, error)
	RegisterAgent(ctx context.Context, input RegisterAgentInput) (*entity.Agent, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	Me(ctx context.Context, principal entity.Principal) (*Profile, error)
	ChangePassword(ctx context.Context, principal entity.Principal, input ChangePasswordInput) error
}
