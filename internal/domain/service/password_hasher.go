// Package service declares domain capabilities that are implemented in infra:
// credential hashing, token issuing and stock metrics.
package service

// PasswordHasher stores and verifies account passwords. Plaintext never leaves the usecase.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Check is false for a mismatch and for a malformed hash alike.
	Check(password, hash string) bool

	// ValidatePasswordStrength returns ErrValidationFailed with the violated rule in Details.
	ValidatePasswordStrength(password string) error
}
