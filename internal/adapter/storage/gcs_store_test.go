package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"paperplane/internal/config"
	"paperplane/internal/domain"
)

func TestNewGCSStore(t *testing.T) {
	_, err := NewGCSStore(context.Background(), config.StorageConfig{}, zap.NewNop(), option.WithoutAuthentication())
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	store, err := NewGCSStore(context.Background(), config.StorageConfig{Bucket: "papers"}, zap.NewNop(), option.WithoutAuthentication())
	require.NoError(t, err)
	defer store.Close()

	key, ok := store.KeyFromURL("https://storage.googleapis.com/papers/questions/a%20b.png")
	require.True(t, ok)
	assert.Equal(t, "questions/a b.png", key)

	_, ok = store.KeyFromURL("https://storage.googleapis.com/other/questions/a.png")
	assert.False(t, ok)

	assert.NoError(t, store.Delete(context.Background(), ""))
}
