// Package querycache memoizes composed search result pages in a key-value
// store, keyed by the canonical request signature.
package querycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/citystory/placesearch/internal/db"
	"github.com/citystory/placesearch/internal/domain/moderation"
	"github.com/citystory/placesearch/internal/domain/search/result"
	"github.com/citystory/placesearch/internal/metrics"
)

const resultsSegment = "results:"

// Cache stores serialized result pages with a TTL. Concurrent requests for
// the same signature collapse into a single computation, and any moderation
// event invalidates every cached page.
type Cache struct {
	store      db.KVStore
	log        *zap.Logger
	ttl        time.Duration
	maxResults int
	prefix     string
	group      singleflight.Group
}

// Options configures the cache.
type Options struct {
	TTL        time.Duration
	MaxResults int    // pages whose total count is at or above this are not stored
	KeyPrefix  string // namespace prefix, e.g. "placesearch:"
}

// New creates a query cache.
func New(store db.KVStore, log *zap.Logger, opts Options) *Cache {
	return &Cache{
		store:      store,
		log:        log,
		ttl:        opts.TTL,
		maxResults: opts.MaxResults,
		prefix:     opts.KeyPrefix + resultsSegment,
	}
}

// key hashes the signature so cache keys stay short and opaque regardless of
// query length.
func (c *Cache) key(signature string) string {
	sum := sha256.Sum256([]byte(signature))
	return c.prefix + hex.EncodeToString(sum[:])
}

// GetOrCompute returns the cached page for the signature, or runs compute and
// stores its result. Backend failures degrade to compute-only: a broken cache
// must never fail a search.
func (c *Cache) GetOrCompute(ctx context.Context, signature string, compute func() (*result.Page, error)) (*result.Page, error) {
	key := c.key(signature)

	if page, ok := c.lookup(ctx, key); ok {
		countCacheResult("hit")
		return page, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check inside the flight: a concurrent leader may have stored
		// the page while this call was queued.
		if page, ok := c.lookup(ctx, key); ok {
			countCacheResult("hit")
			return page, nil
		}

		page, err := compute()
		if err != nil {
			return nil, err
		}

		if c.maxResults > 0 && page.Count >= c.maxResults {
			countCacheResult("bypass")
			return page, nil
		}
		countCacheResult("miss")
		c.put(ctx, key, page)
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*result.Page), nil
}

func (c *Cache) lookup(ctx context.Context, key string) (*result.Page, bool) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.log.Warn("query cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var page result.Page
	if err := json.Unmarshal(raw, &page); err != nil {
		c.log.Warn("query cache entry corrupt, dropping", zap.Error(err))
		if delErr := c.store.Del(ctx, key); delErr != nil {
			c.log.Warn("query cache drop failed", zap.Error(delErr))
		}
		return nil, false
	}
	return &page, true
}

func (c *Cache) put(ctx context.Context, key string, page *result.Page) {
	raw, err := json.Marshal(page)
	if err != nil {
		c.log.Warn("query cache encode failed", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, raw, c.ttl); err != nil {
		c.log.Warn("query cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached result page. Any moderation change can alter
// any page, so per-entry invalidation is not attempted.
func (c *Cache) Invalidate(ctx context.Context) error {
	keys, err := c.store.Scan(ctx, c.prefix+"*")
	if err != nil {
		return fmt.Errorf("scan query cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	n, err := c.store.DelMulti(ctx, keys)
	if err != nil {
		return fmt.Errorf("invalidate query cache: %w", err)
	}
	c.log.Info("query cache invalidated", zap.Int("entries", n))
	return nil
}

// HandleModerationEvent adapts Invalidate to the moderation event bus.
func (c *Cache) HandleModerationEvent(ctx context.Context, ev moderation.Event) error {
	if err := c.Invalidate(ctx); err != nil {
		return fmt.Errorf("on %s of place %s: %w", ev.Type, ev.PlaceID, err)
	}
	return nil
}

func countCacheResult(outcome string) {
	if metrics.SearchCacheTotal != nil {
		metrics.SearchCacheTotal.WithLabelValues(outcome).Inc()
	}
}
