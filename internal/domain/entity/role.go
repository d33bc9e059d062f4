// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the type of principal acting in the system.
type Role string

const (
	// RoleSuperAdmin manages accounts, approvals and every customer.
	RoleSuperAdmin Role = "SUPER_ADMIN"
	// RoleFactorySales is an in-house sales representative.
	RoleFactorySales Role = "FACTORY_SALES"
	// RoleInventoryManager maintains products and stock.
	RoleInventoryManager Role = "INVENTORY_MANAGER"
	// RoleAgent is an external agent company. Agents are stored apart from users.
	RoleAgent Role = "AGENT"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleFactorySales, RoleInventoryManager, RoleAgent:
		return true
	default:
		return false
	}
}

// IsUserRole reports whether the role belongs to the users table.
func (r Role) IsUserRole() bool {
	return r.IsValid() && r != RoleAgent
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ApprovalStatus is the review state of a self-registered account.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusRejected ApprovalStatus = "REJECTED"
)

// IsValid checks if the status is a known value.
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}
