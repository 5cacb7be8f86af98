package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/do0han/tubespyv1/pkg/hash"
)

// DefaultReportTTL bounds how stale a cached report may get.
const DefaultReportTTL = 2 * time.Minute

// CacheService is a Redis cache-aside layer for report responses. Reports
// are cheap to recompute but read far more often than the store changes, so
// short TTLs plus owner-wide invalidation after writes keep them fresh.
type CacheService struct {
	rdb    *redis.Client
	ttl    time.Duration
	hits   prometheus.Counter
	misses prometheus.Counter
}

// NewCacheService connects to Redis. If redisURL is empty or the connection
// fails, caching degrades to a no-op rather than blocking startup. The
// counters may be nil.
func NewCacheService(redisURL string, ttl time.Duration, hits, misses prometheus.Counter) *CacheService {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	svc := &CacheService{ttl: ttl, hits: hits, misses: misses}

	if redisURL == "" {
		log.Println("redis: no URL configured, report caching disabled")
		return svc
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, report caching disabled: %v", redisURL, err)
		return svc
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, report caching disabled: %v", err)
		return svc
	}

	log.Println("redis: connected, report caching enabled")
	svc.rdb = rdb
	return svc
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetReport unmarshals a cached report into dest. The bool reports a hit.
func (c *CacheService) GetReport(ctx context.Context, key string, dest any) (bool, error) {
	if c.rdb == nil {
		return false, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.countMiss()
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// A stale or incompatible payload is a miss, not a failure.
		c.countMiss()
		return false, nil
	}
	c.countHit()
	return true, nil
}

// SetReport stores a report under key with the configured TTL.
func (c *CacheService) SetReport(ctx context.Context, key string, report any) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// InvalidateOwner drops every cached report belonging to one owner. Called
// after any sync or delete touching that owner's rows.
func (c *CacheService) InvalidateOwner(ctx context.Context, ownerID string) error {
	if c.rdb == nil {
		return nil
	}
	pattern := ownerPrefix(ownerID) + "*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *CacheService) countHit() {
	if c.hits != nil {
		c.hits.Inc()
	}
}

func (c *CacheService) countMiss() {
	if c.misses != nil {
		c.misses.Inc()
	}
}

// ChannelsReportKey is the cache key for an owner's channels report.
func ChannelsReportKey(ownerID string) string {
	return ownerPrefix(ownerID) + "channels"
}

// VideosReportKey derives the cache key for one videos-report query shape.
// The query dimensions are hashed so arbitrary filter values stay within a
// bounded key length.
func VideosReportKey(ownerID, channelID, sortField, sortOrder string, limit int) string {
	q := fmt.Sprintf("%s|%s|%s|%d", channelID, sortField, sortOrder, limit)
	return ownerPrefix(ownerID) + "videos:" + hash.Short(q, 16)
}

func ownerPrefix(ownerID string) string {
	// Owner ids are caller-supplied; hashing keeps them out of Redis keys.
	return "report:" + hash.Short(ownerID, 16) + ":"
}
