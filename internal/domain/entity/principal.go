package entity

import "github.com/google/uuid"

// Principal is the authenticated caller of a request, either a user or an agent.
type Principal struct {
	ID       uuid.UUID `json:"id"`
	Role     Role      `json:"role"`
	Username string    `json:"username"`
}

// IsAdmin reports whether the principal is a super admin.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleSuperAdmin
}

// IsAgent reports whether the principal is an agent company.
func (p Principal) IsAgent() bool {
	return p.Role == RoleAgent
}
