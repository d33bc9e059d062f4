package auth

import (
	"testing"

	"crm/config"
	domainerrors "crm/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *bcryptHasher {
	return NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost}}).(*bcryptHasher)
}

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := newTestHasher()

	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, hasher.Check("secret123", hash))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestBcryptHasher_HashWithWeakPassword(t *testing.T) {
	hasher := newTestHasher()

	weakPasswords := []string{
		"a1",                     // too short
		"abcdefgh",               // no digits
		"12345678",               // no letters
		string(make([]byte, 80)), // too long
	}

	for _, weak := range weakPasswords {
		_, err := hasher.Hash(weak)
		assert.Error(t, err, "expected error for weak password %q", weak)

		var appErr domainerrors.AppError
		assert.True(t, errors.As(err, &appErr))
	}
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := newTestHasher()

	hash, err := hasher.Hash("Correct1")
	require.NoError(t, err)

	assert.True(t, hasher.Check("Correct1", hash))
	assert.False(t, hasher.Check("Wrong123", hash))
	assert.False(t, hasher.Check("", hash))
	assert.False(t, hasher.Check("Correct1", "invalid_hash"))
}

func TestNewBcryptHasher_FallsBackToDefaultCost(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: 99}}).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)

	hasher = NewBcryptHasher(nil).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}
