package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return NewRedisStore(client), mr, cleanup
}

func TestRedisStore_GetMissing(t *testing.T) {
	kv, _, cleanup := setupTestStore(t)
	defer cleanup()

	value, ok := kv.Get(context.Background(), "nonexistent")
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestRedisStore_SetThenGet(t *testing.T) {
	kv, mr, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	kv.Set(ctx, CartKey("guest"), `[{"id":"p1"}]`)

	stored, err := mr.Get(CartKey("guest"))
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"p1"}]`, stored)

	value, ok := kv.Get(ctx, CartKey("guest"))
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"p1"}]`, value)
}

func TestRedisStore_Remove(t *testing.T) {
	kv, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	kv.Set(ctx, CouponKey, "SAVE10")
	kv.Remove(ctx, CouponKey)

	_, ok := kv.Get(ctx, CouponKey)
	assert.False(t, ok)
}

func TestRedisStore_RemoveMissingIsNoop(t *testing.T) {
	kv, _, cleanup := setupTestStore(t)
	defer cleanup()

	kv.Remove(context.Background(), "never-set")
}

func TestRedisStore_DegradesWhenBackendGone(t *testing.T) {
	kv, mr, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	kv.Set(ctx, "key", "value")
	mr.Close()

	// Every operation swallows the connection failure.
	kv.Set(ctx, "key", "other")
	kv.Remove(ctx, "key")
	value, ok := kv.Get(ctx, "key")
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestScopedKeys(t *testing.T) {
	assert.Equal(t, "cart:guest", CartKey(GuestScope))
	assert.Equal(t, "orders:u1", OrdersKey("u1"))
	assert.Equal(t, "reminders:u1", RemindersKey("u1"))
}
