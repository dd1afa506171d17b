// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"gadget_backend/internal/feature/catalog/domain/entity"
	"gadget_backend/internal/feature/catalog/usecase"
)

// CachingCatalogRepository decorates a CatalogRepository with Redis read-through caching.
// Reads are cached per collection, generation and filter. An insert bumps the collection's
// generation and drops its keys, so a read that raced the insert can only fill a key of the
// previous generation, which no later read looks up.
type CachingCatalogRepository struct {
	inner     usecase.CatalogRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.CatalogRepository = (*CachingCatalogRepository)(nil)

// NewCachingCatalogRepository decorates a CatalogRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "catalog".
// A nil rdb turns the decorator into a pass-through.
func NewCachingCatalogRepository(rdb *redis.Client, ttl time.Duration, inner usecase.CatalogRepository, namespace string) *CachingCatalogRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "catalog"
	}
	return &CachingCatalogRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Insert stores the document and invalidates the cached reads of its collection.
func (c *CachingCatalogRepository) Insert(ctx context.Context, collection string, doc entity.Document) error {
	if err := c.inner.Insert(ctx, collection, doc); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	// Best effort: a failed invalidation only delays visibility until the TTL expires
	if err := c.rdb.Incr(ctx, c.generationKey(collection)).Err(); err != nil {
		slog.Warn("cache generation bump failed", "collection", collection, "error", err)
	}
	if err := c.deleteByPattern(ctx, c.collectionPrefix(collection)+"*"); err != nil {
		slog.Warn("cache invalidation failed", "collection", collection, "error", err)
	}
	return nil
}

// Find retrieves documents, checking cache first then falling back to the store.
func (c *CachingCatalogRepository) Find(ctx context.Context, collection string, filter entity.Filter) ([]entity.Document, error) {
	if c.rdb == nil {
		return c.inner.Find(ctx, collection, filter)
	}

	gen, ok := c.generation(ctx, collection)
	if !ok {
		return c.inner.Find(ctx, collection, filter)
	}
	key := c.listKey(collection, gen, filter)

	// 1) Check cache
	var cached []entity.Document
	if c.get(ctx, key, &cached) {
		if cached == nil {
			cached = []entity.Document{}
		}
		return cached, nil
	}

	// 2) Fallback to store
	out, err := c.inner.Find(ctx, collection, filter)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	c.set(ctx, key, out)
	return out, nil
}

// FindOne retrieves a single document through the cache. Misses (ErrNotFound) are not cached.
func (c *CachingCatalogRepository) FindOne(ctx context.Context, collection string, filter entity.Filter) (entity.Document, error) {
	if c.rdb == nil {
		return c.inner.FindOne(ctx, collection, filter)
	}

	gen, ok := c.generation(ctx, collection)
	if !ok {
		return c.inner.FindOne(ctx, collection, filter)
	}
	key := c.oneKey(collection, gen, filter)

	var cached entity.Document
	if c.get(ctx, key, &cached) && cached != nil {
		return cached, nil
	}

	out, err := c.inner.FindOne(ctx, collection, filter)
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, out)
	return out, nil
}

// generation returns the collection's current generation, "0" before the first insert.
// ok is false when Redis cannot be read; the caller then bypasses the cache.
func (c *CachingCatalogRepository) generation(ctx context.Context, collection string) (string, bool) {
	gen, err := c.rdb.Get(ctx, c.generationKey(collection)).Result()
	switch {
	case err == nil:
		return gen, true
	case errors.Is(err, redis.Nil):
		return "0", true
	default:
		slog.Warn("cache read failed", "collection", collection, "error", err)
		return "", false
	}
}

// get loads key into dst. Corrupted entries are deleted and reported as a miss.
func (c *CachingCatalogRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *CachingCatalogRepository) set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// listKey is "<namespace>:<collection>:v<generation>:<filter>".
func (c *CachingCatalogRepository) listKey(collection, gen string, filter entity.Filter) string {
	return joinKey(safe(c.namespace), safe(collection), "v"+gen, filter.Key())
}

// oneKey is "<namespace>:<collection>:v<generation>:one:<filter>".
func (c *CachingCatalogRepository) oneKey(collection, gen string, filter entity.Filter) string {
	return joinKey(safe(c.namespace), safe(collection), "v"+gen, "one", filter.Key())
}

// generationKey is "<namespace>:gen:<collection>", outside the collection prefix so invalidation keeps it.
func (c *CachingCatalogRepository) generationKey(collection string) string {
	return joinKey(safe(c.namespace), "gen", safe(collection))
}

// collectionPrefix generates the prefix shared by every key of collection.
func (c *CachingCatalogRepository) collectionPrefix(collection string) string {
	return joinKey(safe(c.namespace), safe(collection)) + ":"
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingCatalogRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
