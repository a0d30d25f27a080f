package openmeteo

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/agri-advisor-service/internal/domain"
	"github.com/couchcryptid/agri-advisor-service/internal/observability"
	gocache "github.com/patrickmn/go-cache"
)

// CachedProvider wraps a WeatherProvider with an expiring in-memory cache.
// Errors are never cached so transient failures can be retried.
type CachedProvider struct {
	inner   domain.WeatherProvider
	cache   *gocache.Cache
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator whose entries live for ttl.
func NewCachedProvider(inner domain.WeatherProvider, ttl time.Duration, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   gocache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

func (c *CachedProvider) Geocode(ctx context.Context, state, district string) (domain.Coordinates, error) {
	key := fmt.Sprintf("geo:%s|%s", state, district)
	if v, ok := c.cache.Get(key); ok {
		c.metrics.WeatherCache.WithLabelValues("geocode", "hit").Inc()
		return v.(domain.Coordinates), nil
	}
	c.metrics.WeatherCache.WithLabelValues("geocode", "miss").Inc()

	coords, err := c.inner.Geocode(ctx, state, district)
	if err != nil {
		return coords, err
	}
	c.cache.SetDefault(key, coords)
	return coords, nil
}

// Forecast caches by coordinates rounded to four decimals (about 11 m).
func (c *CachedProvider) Forecast(ctx context.Context, at domain.Coordinates) (domain.WeatherSnapshot, error) {
	key := fmt.Sprintf("fc:%.4f,%.4f", at.Latitude, at.Longitude)
	if v, ok := c.cache.Get(key); ok {
		c.metrics.WeatherCache.WithLabelValues("forecast", "hit").Inc()
		return v.(domain.WeatherSnapshot), nil
	}
	c.metrics.WeatherCache.WithLabelValues("forecast", "miss").Inc()

	snap, err := c.inner.Forecast(ctx, at)
	if err != nil {
		return snap, err
	}
	c.cache.SetDefault(key, snap)
	return snap, nil
}
