package auth

import (
	"context"

	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	AdminLogin(ctx context.Context, req AdminLoginRequest) (TokenResponse, error)
	// Logout ends the caller's attendance session and revokes rawToken. Claims are read from ctx.
	Logout(ctx context.Context, rawToken string, req attendance.LogoutRequest) (attendance.SessionResponse, error)
	// BootstrapAdmin creates the first admin account when none exists yet.
	BootstrapAdmin(ctx context.Context, username, password string) error
}
