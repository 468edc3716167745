package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	authdomain "taskflow-backend/internal/auth/domain"
	authdto "taskflow-backend/internal/auth/dto"
	"taskflow-backend/internal/auth/repository"
	"taskflow-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	fcmRepo  repository.FCMTokenRepository
	config   *config.Config
	now      func() time.Time
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, fcmRepo repository.FCMTokenRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		fcmRepo:  fcmRepo,
		config:   cfg,
		now:      time.Now,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	email, err := authdomain.NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	user := NewMockUser(email)
	if err := u.userRepo.Replace(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	log.Info().Msgf("[Auth] Signed in as %s", email)

	return u.generateTokens(user)
}

// NewMockUser builds the profile the simulated sign-in assigns to an address.
func NewMockUser(email string) *authdomain.User {
	local := authdomain.LocalPart(email)
	name := capitalize(local) + " Manager"
	return &authdomain.User{
		ID:      uuid.New().String(),
		Email:   email,
		Name:    name,
		Picture: "https://ui-avatars.com/api/?name=" + url.QueryEscape(local) + "&background=6366f1&color=fff",
	}
}

func capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}

// Logout clears the actor and forgets the devices registered to them, so a
// signed-out browser stops receiving reminders.
func (u *authUsecase) Logout(ctx context.Context) error {
	user, err := u.userRepo.Current(ctx)
	if err != nil {
		return err
	}
	if err := u.userRepo.Clear(ctx); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	if user != nil {
		if err := u.fcmRepo.DeleteTokensByEmail(ctx, user.Email); err != nil {
			log.Warn().Err(err).Msgf("[Auth] Failed to drop device tokens of %s", user.Email)
		}
		log.Info().Msgf("[Auth] Signed out %s", user.Email)
	}
	return nil
}

func (u *authUsecase) CurrentUser(ctx context.Context) (*authdomain.User, error) {
	user, err := u.userRepo.Current(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrNotSignedIn
	}
	return user, nil
}

func (u *authUsecase) generateTokens(user *authdomain.User) (*authdto.TokenResponse, error) {
	expiresAt := u.now().Add(u.config.JWTAccessExpiry)
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     expiresAt.Unix(),
		"iat":     u.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(u.config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt.Unix(),
		User:        user,
	}, nil
}

func (u *authUsecase) ValidateToken(ctx context.Context, tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, authdomain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.Current(ctx)
	if err != nil {
		return nil, err
	}

	// Tokens of an actor that has since been replaced or signed out are rejected.
	if user == nil || user.ID != userID {
		return nil, authdomain.ErrUnauthorized
	}

	return user, nil
}

func (u *authUsecase) RegisterFCMToken(ctx context.Context, email, token, deviceInfo string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is required")
	}
	return u.fcmRepo.SaveToken(ctx, email, token, deviceInfo)
}

func (u *authUsecase) UnregisterFCMToken(ctx context.Context, token string) error {
	return u.fcmRepo.DeleteToken(ctx, token)
}
