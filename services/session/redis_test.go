package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, 30*time.Minute, zap.NewNop()), mr
}

func TestRedisStore_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	require.NoError(t, store.Save(ctx, "dev-1", "listing-1", record("co_1", time.Minute)))
	assert.True(t, mr.Exists(sessionKey("dev-1", "listing-1")))

	rec, err := store.Load(ctx, "dev-1", "listing-1", testStay)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "co_1", rec.CheckoutID)
}

func TestRedisStore_MalformedDataFailsOpen(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)
	key := sessionKey("dev-1", "listing-1")

	require.NoError(t, mr.Set(key, "{checkoutId: oops"))

	rec, err := store.Load(ctx, "dev-1", "listing-1", testStay)
	require.NoError(t, err, "malformed data must read as absence, not as an error")
	assert.Nil(t, rec)
	assert.False(t, mr.Exists(key), "the malformed entry must be deleted")
}

func TestRedisStore_StaleRecordIsDeleted(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)
	key := sessionKey("dev-1", "listing-1")

	data, err := json.Marshal(record("co_1", 40*time.Minute))
	require.NoError(t, err)
	require.NoError(t, mr.Set(key, string(data)))

	rec, err := store.Load(ctx, "dev-1", "listing-1", testStay)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.False(t, mr.Exists(key))
}

func TestRedisStore_ChangedDatesInvalidateRecord(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	require.NoError(t, store.Save(ctx, "dev-1", "listing-1", record("co_1", time.Minute)))

	changed := testStay
	changed.CheckOut = "2025-12-16"
	rec, err := store.Load(ctx, "dev-1", "listing-1", changed)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.False(t, mr.Exists(sessionKey("dev-1", "listing-1")))
}

func TestRedisStore_SaveSetsServerSideExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)
	key := sessionKey("dev-1", "listing-1")

	require.NoError(t, store.Save(ctx, "dev-1", "listing-1", record("co_1", 0)))
	assert.Greater(t, mr.TTL(key), time.Duration(0))

	mr.FastForward(31 * time.Minute)
	rec, err := store.Load(ctx, "dev-1", "listing-1", testStay)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRedisStore_Clear(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	require.NoError(t, store.Save(ctx, "dev-1", "listing-1", record("co_1", time.Minute)))
	require.NoError(t, store.Clear(ctx, "dev-1", "listing-1"))
	assert.False(t, mr.Exists(sessionKey("dev-1", "listing-1")))
}
