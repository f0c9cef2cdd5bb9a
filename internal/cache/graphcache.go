package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/schemalens/core/internal/models"
)

// GraphCache persists one CacheEntry per canonical host on top of a Store.
// Freshness is enforced at load time against the entry's own timestamp and
// TTL (lazy eviction, no background sweep); the store's backend TTL is only a
// backstop. Storage failures degrade to cache misses and dropped writes, so
// callers fall back to fetching fresh rather than seeing errors.
type GraphCache struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewGraphCache(store Store, ttl time.Duration, logger *zap.Logger) *GraphCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphCache{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Load returns the entry for key, or nil when there is none, when it is
// corrupt, when its schema version is stale, or when its TTL has elapsed.
// Unusable entries are deleted on the spot.
func (c *GraphCache) Load(ctx context.Context, key string) *models.CacheEntry {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !IsCacheMiss(err) {
			c.logger.Warn("cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
		}
		return nil
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("cache entry corrupt, evicting", zap.String("key", key), zap.Error(err))
		c.evict(ctx, key)
		return nil
	}
	if entry.SchemaVersion != models.GraphSchemaVersion {
		c.logger.Info("cache entry has stale schema version, evicting",
			zap.String("key", key), zap.Int("version", entry.SchemaVersion))
		c.evict(ctx, key)
		return nil
	}
	if entry.Expired(c.now()) {
		c.evict(ctx, key)
		return nil
	}
	return &entry
}

// Save overwrites the entry for key with a fresh timestamp. The caller merges
// before saving; the cache does not. Write failures are logged and dropped.
func (c *GraphCache) Save(ctx context.Context, key string, g *models.Graph) *models.CacheEntry {
	entry := &models.CacheEntry{
		CacheKey:      key,
		SchemaVersion: models.GraphSchemaVersion,
		Data:          *g,
		Timestamp:     c.now().UnixMilli(),
		TTL:           c.ttl.Milliseconds(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("cache entry serialization failed, dropping write", zap.String("key", key), zap.Error(err))
		return entry
	}
	// Backend expiry at twice the entry TTL keeps dead keys from piling up
	// while leaving the load-time check authoritative.
	if err := c.store.Set(ctx, key, data, 2*c.ttl); err != nil {
		c.logger.Warn("cache write failed, dropping", zap.String("key", key), zap.Error(err))
	}
	return entry
}

// Delete unconditionally removes the entry for key.
func (c *GraphCache) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

func (c *GraphCache) evict(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.Warn("cache eviction failed", zap.String("key", key), zap.Error(err))
	}
}
