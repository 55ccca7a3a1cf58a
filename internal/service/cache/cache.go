package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	domrepo "YieldSense/internal/domain/repository"
	pcache "YieldSense/pkg/cache"
	applogger "YieldSense/pkg/logger"
)

// ResponseCache fronts a cache backend with best-effort semantics: backend
// errors are logged and reported as a miss or ignored on write.
type ResponseCache struct {
	backend pcache.Service
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewResponseCache(backend pcache.Service, m domrepo.Metrics, l *applogger.Logger) *ResponseCache {
	if l == nil {
		l = applogger.Nop()
	}
	return &ResponseCache{backend: backend, metrics: m, l: l}
}

func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.backend == nil {
		return nil, false
	}

	b, err := c.backend.Get(ctx, key)
	switch {
	case err == nil:
		c.record(key, true)
		c.l.Debug("cache.get hit", applogger.String("key", key))
		return b, true
	case errors.Is(err, pcache.ErrCacheMiss):
		c.record(key, false)
		return nil, false
	default:
		c.record(key, false)
		c.l.Warn("cache.get backend_error", applogger.String("key", key), applogger.Error(err))
		if c.metrics != nil {
			c.metrics.RecordError("cache_get")
		}
		return nil, false
	}
}

func (c *ResponseCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c.backend == nil {
		return
	}
	if err := c.backend.Set(ctx, key, value, ttl); err != nil {
		c.l.Warn("cache.set backend_error", applogger.String("key", key), applogger.Error(err))
		if c.metrics != nil {
			c.metrics.RecordError("cache_set")
		}
	}
}

func (c *ResponseCache) Healthy(ctx context.Context) bool {
	if c.backend == nil {
		return false
	}
	return c.backend.Ping(ctx) == nil
}

func (c *ResponseCache) record(key string, hit bool) {
	if c.metrics == nil {
		return
	}
	ns := key
	if i := strings.IndexByte(key, ':'); i > 0 {
		ns = key[:i]
	}
	c.metrics.RecordCacheLookup(ns, hit)
}
