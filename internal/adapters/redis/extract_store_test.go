package redis_adapter

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserKey(t *testing.T) {
	key := userKey("Buyer@Example.com ")

	assert.True(t, strings.HasPrefix(key, extractKeyPrefix))
	assert.Len(t, strings.TrimPrefix(key, extractKeyPrefix), 40)
	assert.NotContains(t, key, "example")
	assert.Equal(t, key, userKey("buyer@example.com"), "keys are case and space insensitive")
	assert.NotEqual(t, key, userKey("seller@example.com"))
}

func newTestStore(t *testing.T, ttl time.Duration) (*ExtractStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewExtractStore(client, ttl)
	require.NoError(t, err)
	return store, mr
}

func TestExtractStore_SaveLoadDelete(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, store.Save(ctx, "Seller@Example.com", id, map[string]any{
		"location": "Kandy",
		"price":    2500000.0,
	}))

	fields, err := store.Load(ctx, "seller@example.com", id)
	require.NoError(t, err)
	assert.Equal(t, "Kandy", fields["location"])
	assert.Equal(t, json.Number("2500000"), fields["price"])

	key := userKey("seller@example.com")
	assert.Equal(t, time.Hour, mr.TTL(key))

	require.NoError(t, store.Delete(ctx, "seller@example.com", id))
	fields, err = store.Load(ctx, "seller@example.com", id)
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestExtractStore_LoadMissingIsNil(t *testing.T) {
	store, _ := newTestStore(t, 0)

	fields, err := store.Load(context.Background(), "nobody@example.com", uuid.New())
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestExtractStore_ExpiresWholeHash(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	require.NoError(t, store.Save(ctx, "seller@example.com", first, map[string]any{"location": "Galle"}))
	mr.FastForward(45 * time.Second)
	// a second draft refreshes the hash TTL
	require.NoError(t, store.Save(ctx, "seller@example.com", second, map[string]any{"location": "Matara"}))
	mr.FastForward(45 * time.Second)

	fields, err := store.Load(ctx, "seller@example.com", first)
	require.NoError(t, err)
	assert.Equal(t, "Galle", fields["location"])

	mr.FastForward(time.Minute)
	fields, err = store.Load(ctx, "seller@example.com", second)
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestExtractStore_LoadCorruptPayload(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	id := uuid.New()
	mr.HSet(userKey("seller@example.com"), id.String(), "{not json")

	_, err := store.Load(context.Background(), "seller@example.com", id)
	assert.Error(t, err)
}

func TestNewExtractStore_NilClient(t *testing.T) {
	_, err := NewExtractStore(nil, time.Hour)
	assert.Error(t, err)
}
