package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// ErrMiss is returned by a Store when a key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is the shared key/value store behind the cache. An expired entry
// must be reported as ErrMiss, never returned.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache is an advisory cache-aside layer: it is never the source of truth,
// so every store failure is reported to the caller as a miss and the caller
// computes fresh. Concurrent recomputation of the same key is accepted.
type Cache struct {
	store Store
	log   zerolog.Logger
}

func New(store Store, log zerolog.Logger) *Cache {
	return &Cache{store: store, log: log}
}

// GetJSON reads key and unmarshals it into target. It returns false on a
// miss, an expired entry, a store error or a decode error.
func (c *Cache) GetJSON(ctx context.Context, key string, target any) bool {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.log.Debug().Err(err).Str("key", key).Msg("cache get failed, treating as miss")
		}
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("cache entry undecodable, treating as miss")
		return false
	}
	return true
}

// SetJSON stores value under key for ttl. Failures are logged and swallowed:
// a write that never lands only costs a future recomputation.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := c.store.SetWithTTL(ctx, key, raw, ttl); err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}
