package service

import (
	"time"

	"crm/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the principal in access tokens; jti, exp and iat live in RegisteredClaims.
type Claims struct {
	UserID   uuid.UUID   `json:"id"`
	Role     entity.Role `json:"role"`
	Username string      `json:"username"`
	jwt.RegisteredClaims
}

// Principal converts the claims back to the caller identity.
func (c *Claims) Principal() entity.Principal {
	return entity.Principal{ID: c.UserID, Role: c.Role, Username: c.Username}
}

// TokenService defines the interface for generating and validating access tokens.
type TokenService interface {
	// GenerateToken signs an access token for the principal.
	GenerateToken(principal entity.Principal) (token string, expiresAt time.Time, err error)

	// ValidateToken checks signature and expiry and returns the claims.
	ValidateToken(tokenString string) (*Claims, error)
}
