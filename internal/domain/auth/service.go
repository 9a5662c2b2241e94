package auth

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest, session SessionTrackingRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	// LoginWithGoogle signs in an existing user by Google profile, linking the Google id on first use.
	LoginWithGoogle(ctx context.Context, req GoogleLoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context) (user.UserResponse, error)
	// CreateUser adds a manager or employee account to the caller's company.
	CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error)
	ListUsers(ctx context.Context) ([]user.UserResponse, error)
}
