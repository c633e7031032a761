package store

import (
	"context"
	"log"
	"time"

	"vanitybot/pkg/cache"
)

// HashCache is the part of cache.Cache used by CachedStore.
type HashCache interface {
	Key(parts ...string) string
	HGet(ctx context.Context, key, field string) (string, error)
	HSet(ctx context.Context, key, field, value string) error
	HDel(ctx context.Context, key string, fields ...string) error
	HSetAll(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error
}

var _ HashCache = (*cache.Cache)(nil)

// CachedStore mirrors assignments into a Redis hash. The wrapped Store is
// the source of truth; cache errors are logged and never returned.
type CachedStore struct {
	Store
	cache HashCache
}

func NewCachedStore(store Store, cache HashCache) *CachedStore {
	return &CachedStore{
		Store: store,
		cache: cache,
	}
}

func (c *CachedStore) key() string {
	return c.cache.Key("assignments")
}

func (c *CachedStore) Get(userID string) (string, bool, error) {
	ctx := context.Background()

	roleID, err := c.cache.HGet(ctx, c.key(), userID)
	if err == nil && roleID != "" {
		return roleID, true, nil
	}
	if err != nil && !cache.IsMiss(err) {
		log.Printf("[Store] Cache read failed for %s: %v", userID, err)
	}

	roleID, ok, err := c.Store.Get(userID)
	if err != nil || !ok {
		return roleID, ok, err
	}

	if setErr := c.cache.HSet(ctx, c.key(), userID, roleID); setErr != nil {
		log.Printf("[Store] Cache fill failed for %s: %v", userID, setErr)
	}
	return roleID, true, nil
}

func (c *CachedStore) Put(userID, roleID string) error {
	if err := c.Store.Put(userID, roleID); err != nil {
		return err
	}

	if err := c.cache.HSet(context.Background(), c.key(), userID, roleID); err != nil {
		log.Printf("[Store] Cache write failed for %s: %v", userID, err)
	}
	return nil
}

func (c *CachedStore) Delete(userID string) error {
	if err := c.Store.Delete(userID); err != nil {
		return err
	}

	if err := c.cache.HDel(context.Background(), c.key(), userID); err != nil {
		log.Printf("[Store] Cache delete failed for %s: %v", userID, err)
	}
	return nil
}

// Warm replaces the cached hash with the wrapped store's contents.
func (c *CachedStore) Warm(ctx context.Context) error {
	all, err := c.Store.All()
	if err != nil {
		return err
	}
	return c.cache.HSetAll(ctx, c.key(), all, cache.AssignmentsTTL)
}
