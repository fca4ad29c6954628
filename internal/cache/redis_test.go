package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newMiniRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	store, err := NewRedisStore(RedisConfig{Address: srv.Addr(), Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, srv
}

func TestRedisStoreSetGetDelete(t *testing.T) {
	store, srv := newMiniRedisStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, AnswerKey("fever").String())
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, AnswerKey("fever").String(), []byte(`"rest"`), 10*time.Minute))
	require.True(t, srv.Exists("medisearch:answer:fever"))
	require.Equal(t, 10*time.Minute, srv.TTL("medisearch:answer:fever"))

	value, ok, err := store.Get(ctx, AnswerKey("fever").String())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `"rest"`, string(value))

	require.NoError(t, store.Set(ctx, "pinned", []byte("1"), 0))
	require.Zero(t, srv.TTL("medisearch:pinned"))

	require.NoError(t, store.Delete(ctx, AnswerKey("fever").String(), "missing"))
	_, ok, err = store.Get(ctx, AnswerKey("fever").String())
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, store.Delete(ctx))
}

func TestRedisStoreEntriesExpire(t *testing.T) {
	store, srv := newMiniRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, PageKey(1, 10).String(), []byte("[]"), time.Minute))
	srv.FastForward(time.Minute)

	_, ok, err := store.Get(ctx, PageKey(1, 10).String())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStoreIncrementWithTTL(t *testing.T) {
	store, srv := newMiniRedisStore(t)
	ctx := context.Background()

	count, ttl, err := store.IncrementWithTTL(ctx, "ratelimit:198.51.100.4", 30*time.Second)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
	require.Equal(t, 30*time.Second, ttl)

	srv.FastForward(10 * time.Second)
	count, ttl, err = store.IncrementWithTTL(ctx, "ratelimit:198.51.100.4", 30*time.Second)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
	require.Equal(t, 20*time.Second, ttl)

	srv.FastForward(20 * time.Second)
	count, _, err = store.IncrementWithTTL(ctx, "ratelimit:198.51.100.4", 30*time.Second)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestRedisStorePingAndClosedServer(t *testing.T) {
	store, srv := newMiniRedisStore(t)
	require.NoError(t, store.Ping(context.Background()))

	srv.Close()
	require.Error(t, store.Ping(context.Background()))
	_, _, err := store.Get(context.Background(), "answer:fever")
	require.Error(t, err)
}

func TestNewRedisStoreRequiresAddress(t *testing.T) {
	_, err := NewRedisStore(RedisConfig{Address: "  "})
	require.Error(t, err)
	require.Contains(t, err.Error(), "address is required")
}

func TestRedisStorePrefixesKeys(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	store := newRedisStore(client, "")
	t.Cleanup(func() { _ = store.Close() })

	require.Equal(t, "medisearch:answer:fever", store.prefixed("answer:fever"))
	require.Equal(t, "medisearch:answer:fever", store.prefixed("medisearch:answer:fever"))
	require.Equal(t, "medisearch:suggestion:x", store.prefixed(":suggestion::x"))

	custom := newRedisStore(client, "staging:")
	require.Equal(t, "staging:answer:fever", custom.prefixed("answer:fever"))
}

func TestNormalizeKeyCollapsesColons(t *testing.T) {
	require.Equal(t, "", normalizeKey(""))
	require.Equal(t, "a:b:c", normalizeKey("a::b:::c"))
}
