package cache

import (
	"fmt"
	"time"

	"bookstore-admin/internal/config"
	pkgcache "bookstore-admin/pkg/cache"
)

// New builds the cache backend selected by the config. "none" returns nil:
// controllers treat a nil cache as caching disabled.
func New(cfg *config.Config) (pkgcache.Cache, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return NewMemoryCache(cfg.Cache.TTL, time.Minute), nil
	case "redis":
		return NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB, cfg.Cache.TTL), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

var (
	_ pkgcache.Cache = (*MemoryCache)(nil)
	_ pkgcache.Cache = (*RedisCache)(nil)
)
