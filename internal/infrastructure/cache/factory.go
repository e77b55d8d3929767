package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReportCache is the storage behind the dashboard statistics
type ReportCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// NewRedisClient creates a Redis client and checks the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewReportCache picks the Redis cache when a client is available and
// falls back to process memory otherwise
func NewReportCache(client *redis.Client, logger *zap.Logger) ReportCache {
	if client != nil {
		logger.Info("using Redis report cache")
		return NewRedisReportCache(client, "")
	}
	logger.Info("using in-memory report cache")
	return NewInMemoryReportCache()
}

var (
	_ ReportCache = (*RedisReportCache)(nil)
	_ ReportCache = (*InMemoryReportCache)(nil)
)
