package records

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"dealaudit/internal/listing"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dealaudit_parcel_cache_lookups_total",
		Help: "Parcel cache lookups by outcome",
	}, []string{"outcome"}) // outcome: "hit", "miss", "error"
)

const parcelKeyPrefix = "parcel:addr:"

// RedisCache fronts a Source with a Redis read cache. Parcel data changes on
// the order of months while the upstream API is slow and rate limited, so a
// generous TTL is safe. Cache failures degrade to the wrapped source.
type RedisCache struct {
	client *redis.Client
	source Source
	ttl    time.Duration
}

// NewRedisCache wraps a source with a Redis cache.
func NewRedisCache(client *redis.Client, source Source, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, source: source, ttl: ttl}
}

func cacheKey(address string) string {
	return parcelKeyPrefix + strings.Join(strings.Fields(strings.ToLower(address)), " ")
}

// Lookup returns the cached record for an address, falling through to the
// wrapped source on a miss. Only positive results are cached; ErrNoRecord is
// passed through so a parcel recorded later is picked up promptly.
func (c *RedisCache) Lookup(ctx context.Context, address string) (*listing.CorroboratingRecord, error) {
	key := cacheKey(address)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rec listing.CorroboratingRecord
		if err := json.Unmarshal(raw, &rec); err == nil {
			cacheLookups.WithLabelValues("hit").Inc()
			return &rec, nil
		}
		// Corrupt entry: fall through and overwrite.
		cacheLookups.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		cacheLookups.WithLabelValues("miss").Inc()
	default:
		cacheLookups.WithLabelValues("error").Inc()
	}

	rec, err := c.source.Lookup(ctx, address)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(rec); err == nil {
		// Best effort: a failed SET only costs the next lookup.
		_ = c.client.Set(ctx, key, payload, c.ttl).Err()
	}
	return rec, nil
}
