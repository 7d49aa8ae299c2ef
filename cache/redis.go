package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/use-agent/menumaker/models"
)

const redisKeyPrefix = "menumaker:scrape:"

// redisEntry is the JSON value stored per key. StoredAt lets Get honor a
// caller's max age independently of the Redis TTL.
type redisEntry struct {
	StoredAt time.Time              `json:"stored_at"`
	Response *models.ScrapeResponse `json:"response"`
}

// Redis is a Store backed by a Redis server, shared across processes.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis connects to the server at url (redis://...) and pings it.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &Redis{rdb: rdb, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, key string, maxAgeMs int) (*models.ScrapeResponse, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}
	raw, err := r.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("cache: redis get failed", "error", err)
		}
		return nil, false
	}

	var e redisEntry
	if err := json.Unmarshal(raw, &e); err != nil || e.Response == nil {
		return nil, false
	}
	if time.Since(e.StoredAt) > time.Duration(maxAgeMs)*time.Millisecond {
		return nil, false
	}
	return e.Response, true
}

func (r *Redis) Set(ctx context.Context, key string, resp *models.ScrapeResponse) {
	raw, err := json.Marshal(redisEntry{StoredAt: time.Now(), Response: resp})
	if err != nil {
		slog.Warn("cache: encode entry failed", "error", err)
		return
	}
	if err := r.rdb.Set(ctx, redisKeyPrefix+key, raw, r.ttl).Err(); err != nil {
		slog.Warn("cache: redis set failed", "error", err)
	}
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
