package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yogesh616/MediSearchServer/internal/database/testutil"
)

func newTestDatabaseStore(t *testing.T) (*DatabaseStore, *fakeClock) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	clock := newFakeClock()
	store := NewDatabaseStore(db)
	store.now = clock.Now
	return store, clock
}

func TestDatabaseStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestDatabaseStore(t)

	require.NoError(t, store.Set(ctx, "answer:fever", []byte(`"rest"`), time.Minute))
	value, ok, err := store.Get(ctx, "answer:fever")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `"rest"`, string(value))

	// Overwrite resets value and expiry.
	clock.Advance(50 * time.Second)
	require.NoError(t, store.Set(ctx, "answer:fever", []byte(`"fluids"`), time.Minute))
	clock.Advance(50 * time.Second)
	value, ok, err = store.Get(ctx, "answer:fever")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `"fluids"`, string(value))

	require.NoError(t, store.Delete(ctx, "answer:fever"))
	_, ok, err = store.Get(ctx, "answer:fever")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDatabaseStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestDatabaseStore(t)

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Second))
	clock.Advance(2 * time.Second)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDatabaseStorePurgeExpired(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestDatabaseStore(t)

	require.NoError(t, store.Set(ctx, "old", []byte("1"), time.Second))
	require.NoError(t, store.Set(ctx, "fresh", []byte("2"), time.Hour))
	require.NoError(t, store.Set(ctx, "forever", []byte("3"), 0))

	clock.Advance(time.Minute)
	removed, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	_, ok, _ := store.Get(ctx, "fresh")
	require.True(t, ok)
	_, ok, _ = store.Get(ctx, "forever")
	require.True(t, ok)
}

func TestDatabaseStoreIncrementWithTTL(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestDatabaseStore(t)

	count, ttl, err := store.IncrementWithTTL(ctx, "rl", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
	require.Equal(t, time.Minute, ttl)

	clock.Advance(10 * time.Second)
	count, ttl, err = store.IncrementWithTTL(ctx, "rl", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
	require.Equal(t, 50*time.Second, ttl)

	clock.Advance(time.Minute)
	count, _, err = store.IncrementWithTTL(ctx, "rl", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestNilDatabaseStore(t *testing.T) {
	require.Nil(t, NewDatabaseStore(nil))

	var store *DatabaseStore
	_, _, err := store.Get(context.Background(), "k")
	require.Error(t, err)
}
