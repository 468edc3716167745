package repository

import (
	"context"

	authdomain "taskflow-backend/internal/auth/domain"
)

// UserRepository stores the single signed-in actor.
type UserRepository interface {
	// Current returns nil, nil when nobody is signed in.
	Current(ctx context.Context) (*authdomain.User, error)
	// Replace swaps the current actor and resets the session view state.
	Replace(ctx context.Context, user *authdomain.User) error
	Clear(ctx context.Context) error
}

// FCMTokenRepository defines the interface for FCM token operations
type FCMTokenRepository interface {
	SaveToken(ctx context.Context, email, token, deviceInfo string) error
	GetTokensByEmail(ctx context.Context, email string) ([]authdomain.FCMToken, error)
	DeleteToken(ctx context.Context, token string) error
	DeleteTokensByEmail(ctx context.Context, email string) error
}
