package auth

import (
	"context"
)

// AuthService issues session tokens against the credential store and the
// configured admin password.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	AdminLogin(ctx context.Context, req AdminLoginRequest) (TokenResponse, error)

	// Logout revokes the token carried in ctx.
	Logout(ctx context.Context) error
}
