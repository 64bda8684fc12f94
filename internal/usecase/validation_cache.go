package usecase

import (
	"encoding/json"
	"log"
	"time"

	"github.com/forkflame/backend/internal/domain"
)

// Cache keys for the two independent validated catalogs. They expire on their
// own clocks and never cross-invalidate.
const (
	CacheKeyCatalog  = "forkflame:catalog:validated"
	CacheKeyFeatured = "forkflame:featured:validated"
)

// DefaultCacheTTL is how long a validation record stays servable.
const DefaultCacheTTL = 24 * time.Hour

// ValidationCache persists validation records with a TTL over a key-value
// store. Expired and corrupt records are purged on read and treated as
// absent, so callers only ever see fresh, parseable data or a miss.
type ValidationCache struct {
	store domain.KVStore
	ttl   time.Duration
	now   func() time.Time
}

// NewValidationCache creates a cache with the given TTL (DefaultCacheTTL when
// zero).
func NewValidationCache(store domain.KVStore, ttl time.Duration) *ValidationCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ValidationCache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// ReadValid returns the cached record for key, or absent when the record is
// missing, corrupt, or older than the TTL. Corrupt and expired records are
// purged on the way out.
func (c *ValidationCache) ReadValid(key string) (domain.ValidationRecord, bool) {
	raw, ok := c.store.Get(key)
	if !ok {
		return domain.ValidationRecord{}, false
	}

	var record domain.ValidationRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		log.Printf("[CACHE] purging corrupt record for %s: %v", key, err)
		c.store.Remove(key)
		return domain.ValidationRecord{}, false
	}

	age := c.now().UnixMilli() - record.Timestamp
	if age > c.ttl.Milliseconds() {
		c.store.Remove(key)
		return domain.ValidationRecord{}, false
	}

	return record, true
}

// Write stores items under key, stamped with the current time. Any prior
// record is overwritten unconditionally.
func (c *ValidationCache) Write(key string, items []domain.CatalogItem, validCount int) {
	record := domain.ValidationRecord{
		Items:      items,
		ValidCount: validCount,
		Timestamp:  c.now().UnixMilli(),
	}
	raw, err := json.Marshal(record)
	if err != nil {
		log.Printf("[CACHE] marshal failed for %s: %v", key, err)
		return
	}
	c.store.Set(key, string(raw))
}

// Clear removes the record for key.
func (c *ValidationCache) Clear(key string) {
	c.store.Remove(key)
}
