package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"salon-backend/internal/config"
)

const (
	calendarIDKeyFmt = "calendar:branch:%s" // keyed by sanitized branch name
	calendarIDTTL    = 24 * time.Hour
)

var client *redis.Client

// Init initializes the Redis connection. The cache is optional: on failure
// every helper degrades to a miss and callers fall through to Postgres.
func Init(cfg *config.Config) error {
	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client (nil when the cache is unavailable)
func GetClient() *redis.Client {
	return client
}

// ============================================
// Calendar ID Cache
// ============================================

// GetCachedCalendarID returns the calendar id for a sanitized branch name
func GetCachedCalendarID(ctx context.Context, sanitizedName string) (string, bool) {
	if client == nil {
		return "", false
	}
	id, err := client.Get(ctx, fmt.Sprintf(calendarIDKeyFmt, sanitizedName)).Result()
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

// CacheCalendarID stores the branch name to calendar id mapping
func CacheCalendarID(ctx context.Context, sanitizedName, calendarID string) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(calendarIDKeyFmt, sanitizedName), calendarID, calendarIDTTL)
}

// InvalidateCalendarID drops the cached mapping for one branch
func InvalidateCalendarID(ctx context.Context, sanitizedName string) {
	if client == nil {
		return
	}
	client.Del(ctx, fmt.Sprintf(calendarIDKeyFmt, sanitizedName))
}

// ============================================
// Generic Cache Functions
// ============================================

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// ============================================
// Entity-Based Cache Invalidators
// ============================================

// InvalidateProductCaches clears product list/detail caches.
// Called when: product create/update/delete, used-quantity updates,
// transaction create/void (both mutate stock levels).
func InvalidateProductCaches(ctx context.Context) {
	InvalidatePattern(ctx, "products:*")
	InvalidateKeys(ctx, "inventory:summary")
}

// InvalidateBookingCaches clears booking list caches.
// Called when: booking create/status change/cancel.
func InvalidateBookingCaches(ctx context.Context) {
	InvalidatePattern(ctx, "bookings:*")
}

// InvalidateBranchCaches clears branch caches and the calendar mapping,
// since a branch rename changes the calendar title lookup.
func InvalidateBranchCaches(ctx context.Context) {
	InvalidatePattern(ctx, "branches:*")
	InvalidatePattern(ctx, "calendar:branch:*")
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
