package service

import (
	"time"

	"crm/internal/domain/entity"
	"crm/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockTokenService is a testify mock of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a mock that asserts its expectations when the test ends.
func NewMockTokenService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenService {
	m := &MockTokenService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ service.TokenService = (*MockTokenService)(nil)

func (m *MockTokenService) GenerateToken(principal entity.Principal) (string, time.Time, error) {
	args := m.Called(principal)
	r1, _ := args.Get(1).(time.Time)

	return args.String(0), r1, args.Error(2)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	r0, _ := args.Get(0).(*service.Claims)

	return r0, args.Error(1)
}
