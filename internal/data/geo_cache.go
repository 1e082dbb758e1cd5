package data

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-redirector/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

const geoCachePrefix = "geo:"

// GeoCache caches geo lookups per IP address.
// Implementations handle cache misses gracefully by returning nil, nil.
type GeoCache interface {
	// Get returns nil, nil on a miss. Backend errors are reported as misses.
	Get(ctx context.Context, ip string) (*biz.GeoInfo, error)

	// Set stores info for ip. Failures are logged, never returned.
	Set(ctx context.Context, ip string, info *biz.GeoInfo) error
}

// Compile-time interface checks
var (
	_ GeoCache = (*RedisGeoCache)(nil)
	_ GeoCache = (*noopGeoCache)(nil)
)

// RedisGeoCache implements GeoCache using Redis.
type RedisGeoCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *log.Helper
}

// NewRedisGeoCache creates a new Redis-based geo cache.
// Returns a no-op cache if Redis client is nil or ttl is not positive.
func NewRedisGeoCache(rdb *redis.Client, ttl time.Duration, logger log.Logger) GeoCache {
	if rdb == nil || ttl <= 0 {
		return &noopGeoCache{}
	}
	return &RedisGeoCache{
		rdb: rdb,
		ttl: ttl,
		log: log.NewHelper(logger),
	}
}

func (c *RedisGeoCache) cacheKey(ip string) string {
	return geoCachePrefix + ip
}

// Get retrieves a geo lookup from Redis cache.
func (c *RedisGeoCache) Get(ctx context.Context, ip string) (*biz.GeoInfo, error) {
	data, err := c.rdb.Get(ctx, c.cacheKey(ip)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithContext(ctx).Warnf("Failed to get geo info from cache: %v", err)
		}
		return nil, nil
	}

	var info biz.GeoInfo
	if err := json.Unmarshal(data, &info); err != nil {
		c.log.WithContext(ctx).Warnf("Failed to unmarshal cached geo info: %v", err)
		return nil, nil
	}
	return &info, nil
}

// Set stores a geo lookup in Redis cache.
func (c *RedisGeoCache) Set(ctx context.Context, ip string, info *biz.GeoInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		c.log.WithContext(ctx).Warnf("Failed to marshal geo info for cache: %v", err)
		return nil
	}

	if err := c.rdb.Set(ctx, c.cacheKey(ip), data, c.ttl).Err(); err != nil {
		c.log.WithContext(ctx).Warnf("Failed to cache geo info: %v", err)
	}
	return nil
}

// noopGeoCache is used when Redis is not available.
type noopGeoCache struct{}

func (c *noopGeoCache) Get(context.Context, string) (*biz.GeoInfo, error) {
	return nil, nil
}

func (c *noopGeoCache) Set(context.Context, string, *biz.GeoInfo) error {
	return nil
}
