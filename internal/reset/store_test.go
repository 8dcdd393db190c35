package reset

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client), mr
}

func TestSaveAndConsume(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", "user-1", time.Hour))

	userID, err := store.Consume(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestConsumeIsSingleUse(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", "user-1", time.Hour))

	_, err := store.Consume(ctx, "tok-1")
	require.NoError(t, err)

	_, err = store.Consume(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConsumeUnknownToken(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Consume(context.Background(), "never-saved")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", "user-1", time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := store.Consume(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
