package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	authdomain "taskflow-backend/internal/auth/domain"
	"taskflow-backend/internal/state"
	"taskflow-backend/pkg/kvstore"
)

// fcmTokenRepository keeps every device token in one JSON document, keyed by token.
type fcmTokenRepository struct {
	store kvstore.Store
	mu    sync.Mutex
}

// NewFCMTokenRepository creates a new instance of fcmTokenRepository
func NewFCMTokenRepository(store kvstore.Store) FCMTokenRepository {
	return &fcmTokenRepository{
		store: store,
	}
}

func (r *fcmTokenRepository) load(ctx context.Context) (map[string]authdomain.FCMToken, error) {
	tokens := make(map[string]authdomain.FCMToken)
	raw, err := r.store.Get(ctx, state.KeyFCMTokens)
	if errors.Is(err, kvstore.ErrNotFound) {
		return tokens, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &tokens); err != nil {
		// An unreadable document is treated as empty and overwritten on the next save.
		return make(map[string]authdomain.FCMToken), nil
	}
	return tokens, nil
}

func (r *fcmTokenRepository) save(ctx context.Context, tokens map[string]authdomain.FCMToken) error {
	if len(tokens) == 0 {
		return r.store.Delete(ctx, state.KeyFCMTokens)
	}
	raw, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return kvstore.Put(ctx, r.store, state.KeyFCMTokens, raw)
}

// SaveToken saves or updates an FCM token. A token moves to the latest email that registers it.
func (r *fcmTokenRepository) SaveToken(ctx context.Context, email, token, deviceInfo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tokens, err := r.load(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	entry, ok := tokens[token]
	if !ok {
		entry = authdomain.FCMToken{Token: token, CreatedAt: now}
	}
	entry.Email = email
	entry.DeviceInfo = deviceInfo
	entry.UpdatedAt = now
	tokens[token] = entry

	return r.save(ctx, tokens)
}

// GetTokensByEmail returns all FCM tokens for a user
func (r *fcmTokenRepository) GetTokensByEmail(ctx context.Context, email string) ([]authdomain.FCMToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tokens, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := []authdomain.FCMToken{}
	for _, t := range tokens {
		if t.Email == email {
			out = append(out, t)
		}
	}
	return out, nil
}

// DeleteToken removes a specific FCM token
func (r *fcmTokenRepository) DeleteToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tokens, err := r.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := tokens[token]; !ok {
		return nil
	}
	delete(tokens, token)
	return r.save(ctx, tokens)
}

// DeleteTokensByEmail removes all FCM tokens for a user
func (r *fcmTokenRepository) DeleteTokensByEmail(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tokens, err := r.load(ctx)
	if err != nil {
		return err
	}
	removed := 0
	for key, t := range tokens {
		if t.Email == email {
			delete(tokens, key)
			removed++
		}
	}
	if removed == 0 {
		return nil
	}
	return r.save(ctx, tokens)
}
