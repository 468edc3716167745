package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow-backend/internal/state"
	"taskflow-backend/pkg/kvstore"
)

func TestFCMTokenRepository(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repo := NewFCMTokenRepository(store)

	require.NoError(t, repo.SaveToken(ctx, "a@x.com", "tok-1", "Chrome"))
	require.NoError(t, repo.SaveToken(ctx, "a@x.com", "tok-2", "Phone"))
	require.NoError(t, repo.SaveToken(ctx, "b@x.com", "tok-3", ""))

	tokens, err := repo.GetTokensByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, tokens, 2)

	// Re-registering moves the token to the new email.
	require.NoError(t, repo.SaveToken(ctx, "b@x.com", "tok-2", "Phone"))
	tokens, err = repo.GetTokensByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Len(t, tokens, 2)

	require.NoError(t, repo.DeleteToken(ctx, "tok-1"))
	require.NoError(t, repo.DeleteToken(ctx, "never-registered"))
	tokens, err = repo.GetTokensByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, tokens)

	require.NoError(t, repo.DeleteTokensByEmail(ctx, "nobody@x.com"))
	require.NoError(t, repo.DeleteTokensByEmail(ctx, "b@x.com"))
	tokens, err = repo.GetTokensByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Empty(t, tokens)

	// The document is dropped once the last token goes.
	_, err = store.Get(ctx, state.KeyFCMTokens)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestFCMTokenRepository_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, kvstore.Put(ctx, store, state.KeyFCMTokens, []byte("not json")))

	repo := NewFCMTokenRepository(store)
	tokens, err := repo.GetTokensByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, tokens)

	require.NoError(t, repo.SaveToken(ctx, "a@x.com", "tok", ""))
	tokens, err = repo.GetTokensByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, tokens, 1)
}
