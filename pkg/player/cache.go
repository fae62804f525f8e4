package player

import (
	"github.com/terrycain/station-tv-server/pkg/cachestore"
	"github.com/terrycain/station-tv-server/pkg/cachestore/bolt"
	"github.com/terrycain/station-tv-server/pkg/cachestore/memory"
	"github.com/terrycain/station-tv-server/pkg/cachestore/redis"
)

// OpenCacheStore builds the configured device cache.
func OpenCacheStore(cfg CacheConfig) (cachestore.Store, error) {
	switch cfg.Backend {
	case "memory":
		return memory.New(), nil
	case "redis":
		store, err := redis.New(cfg.RedisURL, "stationtv")
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := bolt.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
