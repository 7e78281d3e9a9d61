package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenStore(t *testing.T) {
	store := NewInMemoryTokenStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "fedex:id")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "fedex:id", "tok-1", time.Minute))
	token, ok, err := store.Get(ctx, "fedex:id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, store.Delete(ctx, "fedex:id"))
	_, ok, _ = store.Get(ctx, "fedex:id")
	assert.False(t, ok)
}

func TestInMemoryTokenStore_Expiry(t *testing.T) {
	store := NewInMemoryTokenStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "shiprocket:ops", "tok", 10*time.Minute))
	require.NoError(t, store.Set(ctx, "fedex:id", "tok", time.Hour))

	now = now.Add(10 * time.Minute)
	_, ok, _ := store.Get(ctx, "shiprocket:ops")
	assert.False(t, ok, "expired at exactly the ttl")
	assert.Equal(t, 2, store.Size())

	store.cleanup()
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryTokenStore_NonPositiveTTLRemoves(t *testing.T) {
	store := NewInMemoryTokenStore(0)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, store.Set(ctx, "k", "v2", 0))
	assert.Zero(t, store.Size())
}

func TestInMemoryTokenStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryTokenStore(time.Millisecond)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestRedisTokenStore_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	store := NewRedisTokenStoreWithClient(client, "")
	defer store.Close()
	ctx := context.Background()

	assert.Equal(t, defaultTokenKeyPrefix, store.keyPrefix)

	_, ok, err := store.Get(ctx, "fedex:id")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.ErrorContains(t, store.Set(ctx, "fedex:id", "tok", time.Minute), "failed to store token")
	assert.ErrorContains(t, store.Delete(ctx, "fedex:id"), "failed to delete token")
	assert.Error(t, store.Ping(ctx))
}

func TestNewTokenStore(t *testing.T) {
	store, err := NewTokenStore(DriverMemory, RedisConfig{}, "")
	require.NoError(t, err)
	assert.IsType(t, &InMemoryTokenStore{}, store)
	assert.NoError(t, store.Close())

	_, err = NewTokenStore("memcached", RedisConfig{}, "")
	assert.ErrorContains(t, err, "unknown token store driver")
}
