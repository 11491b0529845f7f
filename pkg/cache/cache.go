// Package cache keeps recent availability answers in Redis. Every write to a
// date's bookings bumps that date's version and every catalog write bumps the
// catalog version, so older entries are never read again.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultAvailabilityTTL applies when Config.AvailabilityTTL is zero
const DefaultAvailabilityTTL = time.Minute

// Key prefixes
const (
	KeyAvailability   = "salon:availability:"         // + mode:date:v<catalog>.<date version>:hash
	KeyDateVersion    = "salon:availability:version:" // + date
	KeyCatalogVersion = "salon:availability:catalog"
)

// Config contains cache configuration.
type Config struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	AvailabilityTTL time.Duration

	// If true, disable caching on Redis errors
	DisableOnError bool
}

// Cache provides Redis-backed caching with graceful fallback.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
	config Config

	mu       sync.RWMutex
	disabled bool
}

// New connects to Redis. An empty address or a failed ping yields a disabled
// cache rather than an error.
func New(cfg Config, logger *zap.Logger) *Cache {
	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = DefaultAvailabilityTTL
	}
	logger = logger.With(zap.String("component", "cache"))
	if cfg.RedisAddr == "" {
		logger.Info("redis not configured, running without availability cache")
		return Disabled()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, running without availability cache", zap.Error(err))
		_ = client.Close()
		return Disabled()
	}

	logger.Info("redis cache initialized", zap.String("addr", cfg.RedisAddr))
	return NewWithClient(client, cfg, logger)
}

// NewWithClient wraps an existing client
func NewWithClient(client *redis.Client, cfg Config, logger *zap.Logger) *Cache {
	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = DefaultAvailabilityTTL
	}
	return &Cache{client: client, logger: logger, config: cfg}
}

// Disabled returns a cache where every lookup misses
func Disabled() *Cache {
	return &Cache{logger: zap.NewNop(), disabled: true}
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// IsAvailable returns true if the cache is operational.
func (c *Cache) IsAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.disabled && c.client != nil
}

// handleError trips the breaker on Redis errors when configured to
func (c *Cache) handleError(err error, operation string) {
	if err == nil || errors.Is(err, redis.Nil) {
		return
	}
	c.logger.Debug("cache operation failed", zap.String("operation", operation), zap.Error(err))
	if c.config.DisableOnError {
		c.mu.Lock()
		c.disabled = true
		c.mu.Unlock()
		c.logger.Warn("disabling cache due to redis error")
	}
}

// Version identifies the catalog and booking state an answer was computed
// from. The zero value means the cache is not in use.
type Version string

// CurrentVersion reads the catalog and date versions in one round trip.
// Callers read it before loading their snapshot and store under it afterwards,
// so a write that lands in between leaves the stored answer unreachable.
func (c *Cache) CurrentVersion(ctx context.Context, date string) Version {
	if !c.IsAvailable() {
		return ""
	}
	vals, err := c.client.MGet(ctx, KeyCatalogVersion, KeyDateVersion+date).Result()
	if err != nil {
		c.handleError(err, "version")
		return ""
	}
	return Version(fmt.Sprintf("%s.%s", versionPart(vals[0]), versionPart(vals[1])))
}

func versionPart(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "0"
}

// AvailabilityKey builds the cache key for a request on a date at a version
func AvailabilityKey(mode, date string, version Version, request any) (string, error) {
	raw, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	sum := sha1.Sum(raw)
	return fmt.Sprintf("%s%s:%s:v%s:%s", KeyAvailability, mode, date, version, hex.EncodeToString(sum[:])), nil
}

// GetAvailability loads the answer cached at version into dest. It reports whether one was found.
func (c *Cache) GetAvailability(ctx context.Context, mode, date string, version Version, request, dest any) bool {
	if version == "" || !c.IsAvailable() {
		return false
	}
	key, err := AvailabilityKey(mode, date, version, request)
	if err != nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		c.handleError(err, "get")
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Debug("failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetAvailability stores an answer under the version it was computed at
func (c *Cache) SetAvailability(ctx context.Context, mode, date string, version Version, request, value any) {
	if version == "" || !c.IsAvailable() {
		return
	}
	key, err := AvailabilityKey(mode, date, version, request)
	if err != nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.config.AvailabilityTTL).Err(); err != nil {
		c.handleError(err, "set")
	}
}

// InvalidateDate bumps the date's version so cached answers for it stop matching
func (c *Cache) InvalidateDate(ctx context.Context, date string) {
	if !c.IsAvailable() {
		return
	}
	key := KeyDateVersion + date
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 48*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		c.handleError(err, "invalidate")
	}
}

// InvalidateCatalog bumps the catalog version, retiring cached answers for every date
func (c *Cache) InvalidateCatalog(ctx context.Context) {
	if !c.IsAvailable() {
		return
	}
	if err := c.client.Incr(ctx, KeyCatalogVersion).Err(); err != nil {
		c.handleError(err, "invalidate catalog")
	}
}
