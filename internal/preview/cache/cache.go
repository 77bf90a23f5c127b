// Package cache memoizes preview results for a short time.
//
// Entries expire lazily: a lookup past the TTL recomputes and overwrites the
// entry, nothing is evicted in the background. Concurrent misses on the same
// key may compute twice; the last write wins.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

// DefaultTTL is the lifetime of a live preview.
const DefaultTTL = 300 * time.Second

// Entry is a cached result with its creation time.
type Entry struct {
	Result    models.PreviewResult `json:"result"`
	CreatedAt time.Time            `json:"created_at"`
}

// Store keeps entries by key. Set receives the TTL so stores with native
// expiry can drop entries on their own.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
}

// Cache decides hits against an injected clock.
type Cache struct {
	store Store
	now   func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache over store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{store: store, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builds the cache key of a preview variant for a match.
func Key(variant, matchID string) string {
	return variant + ":" + matchID
}

// GetOrCompute returns the entry under key when it is younger than ttl.
// Otherwise it calls compute, stores the result with the current time and
// returns it. Store failures degrade to a miss and are logged.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func() models.PreviewResult) (models.PreviewResult, bool) {
	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		slog.Warn("Cache lookup failed", "key", key, "error", err)
	} else if ok && c.now().Sub(entry.CreatedAt) < ttl {
		slog.Debug("Cache hit", "key", key)
		return entry.Result, true
	}

	slog.Debug("Cache miss", "key", key)
	result := compute()
	if err := c.store.Set(ctx, key, Entry{Result: result, CreatedAt: c.now()}, ttl); err != nil {
		slog.Warn("Cache store failed", "key", key, "error", err)
	}
	return result, false
}

var defaultCache = New(NewMemoryStore())

// Default returns the process-wide cache. It starts empty, lives for the
// whole process and is unbounded; callers needing a memory cap must bound
// it themselves.
func Default() *Cache {
	return defaultCache
}
