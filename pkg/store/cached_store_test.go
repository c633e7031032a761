package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vanitybot/pkg/cache"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHashCache is an in-memory HashCache
type fakeHashCache struct {
	hashes  map[string]map[string]string
	failAll bool
	hits    int
}

func newFakeHashCache() *fakeHashCache {
	return &fakeHashCache{hashes: make(map[string]map[string]string)}
}

func (f *fakeHashCache) Key(parts ...string) string {
	key := "test"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func (f *fakeHashCache) HGet(ctx context.Context, key, field string) (string, error) {
	if f.failAll {
		return "", errors.New("redis down")
	}
	v, ok := f.hashes[key][field]
	if !ok {
		return "", redis.Nil
	}
	f.hits++
	return v, nil
}

func (f *fakeHashCache) HSet(ctx context.Context, key, field, value string) error {
	if f.failAll {
		return errors.New("redis down")
	}
	if f.hashes[key] == nil {
		f.hashes[key] = make(map[string]string)
	}
	f.hashes[key][field] = value
	return nil
}

func (f *fakeHashCache) HDel(ctx context.Context, key string, fields ...string) error {
	if f.failAll {
		return errors.New("redis down")
	}
	for _, field := range fields {
		delete(f.hashes[key], field)
	}
	return nil
}

func (f *fakeHashCache) HSetAll(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error {
	if f.failAll {
		return errors.New("redis down")
	}
	f.hashes[key] = make(map[string]string, len(fields))
	for k, v := range fields {
		f.hashes[key][k] = v
	}
	return nil
}

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "vanity_roles.json"))
	require.NoError(t, err)
	return fs
}

func TestCachedStore_WriteThrough(t *testing.T) {
	backing := newTestFileStore(t)
	hc := newFakeHashCache()
	store := NewCachedStore(backing, hc)

	require.NoError(t, store.Put("111", "555"))
	assert.Equal(t, "555", hc.hashes["test:assignments"]["111"])

	roleID, ok, err := store.Get("111")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "555", roleID)
	assert.Equal(t, 1, hc.hits, "Read should be served from the cache")

	require.NoError(t, store.Delete("111"))
	_, inCache := hc.hashes["test:assignments"]["111"]
	assert.False(t, inCache)
	_, ok, err = store.Get("111")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCachedStore_FillsOnMiss(t *testing.T) {
	backing := newTestFileStore(t)
	require.NoError(t, backing.Put("222", "777"))

	hc := newFakeHashCache()
	store := NewCachedStore(backing, hc)

	roleID, ok, err := store.Get("222")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "777", roleID)
	assert.Equal(t, "777", hc.hashes["test:assignments"]["222"])
}

func TestCachedStore_CacheFailureFallsBack(t *testing.T) {
	backing := newTestFileStore(t)
	hc := newFakeHashCache()
	hc.failAll = true
	store := NewCachedStore(backing, hc)

	require.NoError(t, store.Put("111", "555"), "Cache failures must not fail writes")

	roleID, ok, err := store.Get("111")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "555", roleID)

	require.NoError(t, store.Delete("111"))
}

func TestCachedStore_BackingErrorSkipsCache(t *testing.T) {
	backing := newTestFileStore(t)
	hc := newFakeHashCache()
	store := NewCachedStore(backing, hc)

	err := store.Put("111", "not-a-snowflake")
	assert.ErrorIs(t, err, ErrInvalidRoleID)
	assert.Empty(t, hc.hashes["test:assignments"])
}

func TestCachedStore_Warm(t *testing.T) {
	backing := newTestFileStore(t)
	require.NoError(t, backing.Put("1", "10"))
	require.NoError(t, backing.Put("2", "20"))

	hc := newFakeHashCache()
	hc.hashes["test:assignments"] = map[string]string{"stale": "99"}
	store := NewCachedStore(backing, hc)

	require.NoError(t, store.Warm(context.Background()))
	assert.Equal(t, map[string]string{"1": "10", "2": "20"}, hc.hashes["test:assignments"])
}

func TestCachedStore_Redis(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("Skipping Redis test: REDIS_URL not set")
	}

	rc, err := cache.NewRedisCache(redisURL, "vanitybot_test")
	require.NoError(t, err)
	defer rc.Close()
	defer rc.HSetAll(context.Background(), rc.Key("assignments"), nil, 0)

	store := NewCachedStore(newTestFileStore(t), rc)
	require.NoError(t, store.Put("111", "555"))

	roleID, ok, err := store.Get("111")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "555", roleID)

	require.NoError(t, store.Delete("111"))
	_, err = rc.HGet(context.Background(), rc.Key("assignments"), "111")
	assert.True(t, cache.IsMiss(err))
}
