// Package cache stores rendered artifacts keyed by frame content.
//
// A frame's content is fully described by its processed DOT document and
// the zoom toggle, so [Keyer.FrameKey] hashes exactly those. Artifacts for a
// frame are keyed by the frame key plus output format (and size for SVG).
//
// Three backends are provided: [NullCache] when caching is off, [FileCache]
// for the CLI, and [RedisCache] for the HTTP service when several instances
// share one cache.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/dagviewer/pkg/config"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value and whether it was found. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the cache selected by cfg. An empty backend means no caching.
func Open(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", config.CacheNone:
		return NewNullCache(), nil
	case config.CacheFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache needs a directory")
		}
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.CacheRedis:
		c, err := NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}
