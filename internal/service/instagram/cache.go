package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"InstaCatalog/entity"
	"InstaCatalog/internal/lib/sl"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "instacatalog:profile:"

func CacheKey(username string) string {
	return cachePrefix + username
}

// RedisCache keeps scraped profiles as JSON for a fixed TTL.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration, log *slog.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		log:    log.With(sl.Module("profile-cache")),
	}
}

func (c *RedisCache) Get(ctx context.Context, username string) (*entity.Profile, bool) {
	data, err := c.client.Get(ctx, CacheKey(username)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache read", sl.Err(err))
		}
		return nil, false
	}
	var p entity.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		c.log.Warn("cache decode", sl.Err(err))
		return nil, false
	}
	return &p, true
}

func (c *RedisCache) Set(ctx context.Context, p *entity.Profile) {
	data, err := json.Marshal(p)
	if err != nil {
		c.log.Warn("cache encode", sl.Err(err))
		return
	}
	if err := c.client.Set(ctx, CacheKey(p.Username), data, c.ttl).Err(); err != nil {
		c.log.Warn("cache write", sl.Err(err))
	}
}
