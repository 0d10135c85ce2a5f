package settings

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	platformredis "reggate/internal/platform/redis"
	id "reggate/pkg/domain"
)

const (
	siteCacheKey    = "reggate:settings:site"
	pluginCacheKey  = "reggate:settings:plugin:"
	defaultCacheTTL = 30 * time.Second
)

// Cache is a Redis read-through wrapper around a settings store. Settings
// are read on every signup attempt; the short TTL keeps admin changes
// visible quickly while sparing the database. Redis failures fall through to
// the inner store.
type Cache struct {
	inner  Store
	client *platformredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// CacheOption configures the cache wrapper.
type CacheOption func(*Cache)

// WithTTL overrides the default cache TTL.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the logger for cache fall-through warnings.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache wraps a store with a Redis read-through cache. A nil client
// returns the inner store unchanged.
func NewCache(inner Store, client *platformredis.Client, opts ...CacheOption) Store {
	if client == nil {
		return inner
	}
	c := &Cache{
		inner:  inner,
		client: client,
		ttl:    defaultCacheTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) SiteSettings(ctx context.Context) (Site, error) {
	if raw, err := c.client.Get(ctx, siteCacheKey).Bytes(); err == nil {
		var site Site
		if err := json.Unmarshal(raw, &site); err == nil {
			return site, nil
		}
	}

	site, err := c.inner.SiteSettings(ctx)
	if err != nil {
		return site, err
	}

	if raw, err := json.Marshal(site); err == nil {
		if err := c.client.Set(ctx, siteCacheKey, raw, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "failed to cache site settings", "error", err)
		}
	}
	return site, nil
}

func (c *Cache) SaveSiteSettings(ctx context.Context, site Site) error {
	if err := c.inner.SaveSiteSettings(ctx, site); err != nil {
		return err
	}
	if err := c.client.Del(ctx, siteCacheKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate site settings cache", "error", err)
	}
	return nil
}

func (c *Cache) PluginSetting(ctx context.Context, ruleType id.RuleType, key string) (string, error) {
	cacheKey := pluginCacheKey + ruleType.String() + ":" + key
	if value, err := c.client.Get(ctx, cacheKey).Result(); err == nil {
		return value, nil
	}

	value, err := c.inner.PluginSetting(ctx, ruleType, key)
	if err != nil {
		return "", err
	}
	if err := c.client.Set(ctx, cacheKey, value, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to cache plugin setting", "error", err)
	}
	return value, nil
}

func (c *Cache) SavePluginSetting(ctx context.Context, ruleType id.RuleType, key, value string) error {
	if err := c.inner.SavePluginSetting(ctx, ruleType, key, value); err != nil {
		return err
	}
	cacheKey := pluginCacheKey + ruleType.String() + ":" + key
	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate plugin setting cache", "error", err)
	}
	return nil
}
