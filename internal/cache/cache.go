// Package cache stores short-lived JSON values such as the statistics
// aggregate. The in-process store is the default; redis shares the cache
// between replicas.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/emilythestrangee/bugai/backend/internal/config"
)

// Store is a key/value cache. Get reports false on a miss.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// New builds the store selected by cfg.Driver
func New(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(cfg.StatisticsTTL), nil
	case "redis":
		return NewRedis(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}
