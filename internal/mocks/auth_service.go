package mocks

import (
	"context"

	"github.com/phrazzld/cards-api/internal/service"
)

var _ service.AuthService = (*MockAuthService)(nil)

// MockAuthService implements service.AuthService for testing
type MockAuthService struct {
	SignInFn func(ctx context.Context, email, password string) (*service.SignInResult, error)

	Result *service.SignInResult
	Err    error
}

// SignIn implements the AuthService.SignIn method
func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*service.SignInResult, error) {
	if m.SignInFn != nil {
		return m.SignInFn(ctx, email, password)
	}
	return m.Result, m.Err
}
