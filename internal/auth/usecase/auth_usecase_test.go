package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "taskflow-backend/internal/auth/domain"
	authdto "taskflow-backend/internal/auth/dto"
	"taskflow-backend/internal/auth/repository"
	"taskflow-backend/internal/state"
	"taskflow-backend/pkg/config"
	"taskflow-backend/pkg/kvstore"
)

func newAuthUsecase(t *testing.T) (AuthUsecase, *state.Container) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	container, err := state.Open(context.Background(), store)
	require.NoError(t, err)

	cfg := &config.Config{JWTSecret: "test-secret", JWTAccessExpiry: time.Hour}
	uc := NewAuthUsecase(repository.NewUserRepository(container), repository.NewFCMTokenRepository(store), cfg)
	return uc, container
}

func TestNewMockUser(t *testing.T) {
	user := NewMockUser("alice@example.com")
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice Manager", user.Name)
	assert.Equal(t, "https://ui-avatars.com/api/?name=alice&background=6366f1&color=fff", user.Picture)
	assert.NotEmpty(t, user.ID)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	uc, container := newAuthUsecase(t)

	resp, err := uc.Login(ctx, &authdto.LoginRequest{Email: "  Alice@Example.com "})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "alice@example.com", container.Current().UserEmail())

	user, err := uc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)

	current, err := uc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, current.ID)
}

func TestLogin_RejectsInvalidEmail(t *testing.T) {
	uc, container := newAuthUsecase(t)

	_, err := uc.Login(context.Background(), &authdto.LoginRequest{Email: "no-at-sign"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidEmail)
	assert.Nil(t, container.Current().User)
}

func TestValidateToken_RejectsReplacedActor(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuthUsecase(t)

	first, err := uc.Login(ctx, &authdto.LoginRequest{Email: "a@x.com"})
	require.NoError(t, err)
	second, err := uc.Login(ctx, &authdto.LoginRequest{Email: "b@x.com"})
	require.NoError(t, err)

	_, err = uc.ValidateToken(ctx, first.AccessToken)
	assert.ErrorIs(t, err, authdomain.ErrUnauthorized)

	user, err := uc.ValidateToken(ctx, second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", user.Email)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	uc, container := newAuthUsecase(t)

	resp, err := uc.Login(ctx, &authdto.LoginRequest{Email: "a@x.com"})
	require.NoError(t, err)
	require.NoError(t, uc.Logout(ctx))

	assert.Nil(t, container.Current().User)
	_, err = uc.CurrentUser(ctx)
	assert.ErrorIs(t, err, authdomain.ErrNotSignedIn)
	_, err = uc.ValidateToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, authdomain.ErrUnauthorized)
}

func TestLogout_DropsDeviceTokens(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuthUsecase(t)

	_, err := uc.Login(ctx, &authdto.LoginRequest{Email: "a@x.com"})
	require.NoError(t, err)
	require.NoError(t, uc.RegisterFCMToken(ctx, "a@x.com", "laptop", "Chrome"))
	require.NoError(t, uc.RegisterFCMToken(ctx, "b@x.com", "phone", "Android"))

	require.NoError(t, uc.Logout(ctx))

	fcmRepo := uc.(*authUsecase).fcmRepo
	tokens, err := fcmRepo.GetTokensByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, tokens)
	tokens, err = fcmRepo.GetTokensByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Len(t, tokens, 1)

	// Signing out twice is harmless.
	require.NoError(t, uc.Logout(ctx))
}

func TestValidateToken_RejectsForeignTokens(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuthUsecase(t)

	resp, err := uc.Login(ctx, &authdto.LoginRequest{Email: "a@x.com"})
	require.NoError(t, err)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": resp.User.ID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = uc.ValidateToken(ctx, signed)
	assert.ErrorIs(t, err, authdomain.ErrUnauthorized)

	_, err = uc.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, authdomain.ErrUnauthorized)
}

func TestFCMTokens(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuthUsecase(t)

	assert.Error(t, uc.RegisterFCMToken(ctx, "a@x.com", "  ", ""))
	require.NoError(t, uc.RegisterFCMToken(ctx, "a@x.com", "device-token", "Firefox"))
	require.NoError(t, uc.UnregisterFCMToken(ctx, "device-token"))
}
