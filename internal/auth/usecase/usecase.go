package usecase

import (
	"context"

	authdomain "taskflow-backend/internal/auth/domain"
	authdto "taskflow-backend/internal/auth/dto"
)

// AuthUsecase defines the interface for the simulated sign-in flow
type AuthUsecase interface {
	// Login signs in as email, replacing whoever was signed in before.
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*authdomain.User, error)
	// ValidateToken accepts only tokens issued to the current actor.
	ValidateToken(ctx context.Context, tokenString string) (*authdomain.User, error)

	RegisterFCMToken(ctx context.Context, email, token, deviceInfo string) error
	UnregisterFCMToken(ctx context.Context, token string) error
}
