// Package cache keeps recent scrape responses so repeated requests for the
// same recipe page skip the fetch.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/use-agent/menumaker/config"
	"github.com/use-agent/menumaker/models"
)

// Store is a scrape response cache. Implementations are safe for
// concurrent use. A failed lookup is reported as a miss.
type Store interface {
	// Get returns a cached response younger than maxAgeMs. If maxAgeMs <= 0
	// no lookup is performed.
	Get(ctx context.Context, key string, maxAgeMs int) (*models.ScrapeResponse, bool)

	// Set stores resp under key.
	Set(ctx context.Context, key string, resp *models.ScrapeResponse)

	// Close releases background resources.
	Close() error
}

// Key generates a cache key from the URL and whether recipe text was
// requested.
func Key(url string, includeText bool) string {
	h := sha256.New()
	h.Write([]byte(url))
	h.Write([]byte("|"))
	h.Write([]byte(strconv.FormatBool(includeText)))
	return hex.EncodeToString(h.Sum(nil))
}

// FromConfig returns a Redis store when cfg.RedisURL is set, otherwise an
// in-memory one.
func FromConfig(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	if cfg.RedisURL != "" {
		return NewRedis(ctx, cfg.RedisURL, cfg.TTL)
	}
	return NewMemory(cfg.MaxEntries, cfg.TTL), nil
}
