package repository

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"InstaCatalog/internal/config"
	"InstaCatalog/internal/lib/sl"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns nil when the cache is disabled.
func NewRedisClient(conf *config.Config, logger *slog.Logger) (*redis.Client, error) {
	if !conf.Redis.Enabled {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(conf.Redis.Host, conf.Redis.Port),
		Password:     conf.Redis.Password,
		DB:           conf.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.With(sl.Module("redis")).Info("connected",
		slog.String("addr", client.Options().Addr),
		slog.Int("db", conf.Redis.DB))
	return client, nil
}
