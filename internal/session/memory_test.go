package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afmejia23/reviews-and-ratings/internal/widget"
)

func TestMemoryStore_SaveThenGet(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", sampleState()))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)
}

func TestMemoryStore_Get_Missing(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, widget.ErrSessionNotFound)
}

func TestMemoryStore_ExpiryIsEnforced(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	now := time.Now()
	store.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", sampleState()))

	now = now.Add(2 * time.Hour)
	_, err := store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, widget.ErrSessionNotFound)
}

func TestMemoryStore_SaveRenewsExpiry(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	now := time.Now()
	store.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", sampleState()))
	now = now.Add(45 * time.Minute)
	require.NoError(t, store.Save(ctx, "sess-1", sampleState()))
	now = now.Add(45 * time.Minute)

	_, err := store.Get(ctx, "sess-1")
	assert.NoError(t, err)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", sampleState()))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, widget.ErrSessionNotFound)
}
