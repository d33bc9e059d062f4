package context

import (
	"context"
	"log/slog"
	"testing"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestScopedValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestIDFromContext(ctx))
	assert.Nil(t, GetLogger(ctx))

	fallback := slog.Default()
	assert.Same(t, fallback, GetLoggerOrDefault(ctx, fallback))

	scoped := slog.Default().With(slog.String("request_id", "req-1"))
	ctx = WithLogger(WithRequestID(ctx, "req-1"), scoped)

	assert.Equal(t, "req-1", GetRequestIDFromContext(ctx))
	assert.Same(t, scoped, GetLoggerOrDefault(ctx, fallback))
}

func TestPrincipalFromContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	principal := entity.Principal{ID: uuid.New(), Role: entity.RoleFactorySales}
	got, ok := PrincipalFromContext(WithPrincipal(context.Background(), principal))

	assert.True(t, ok)
	assert.Equal(t, principal, got)
}
