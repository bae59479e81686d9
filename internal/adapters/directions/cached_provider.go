package directions

import (
	"campus-route-service/internal/domain"
	"campus-route-service/internal/platform/obs"
	"campus-route-service/internal/ports"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CachedProvider memoizes successful itineraries in Redis. Failures always go
// back to the wrapped provider so a retry can succeed.
type CachedProvider struct {
	next  ports.DirectionsProvider
	cache *cache.Cache[string]
}

func NewCachedProvider(next ports.DirectionsProvider, client *redis.Client, ttl time.Duration) *CachedProvider {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &CachedProvider{
		next:  next,
		cache: cache.New[string](redisStore),
	}
}

func cacheKey(req domain.DirectionsRequest) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return "directions/" + hex.EncodeToString(sum[:]), nil
}

func (c *CachedProvider) ComputeRoute(
	ctx context.Context,
	req domain.DirectionsRequest,
) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "directions.cache.ComputeRoute")(&err)

	key, err := cacheKey(req)
	if err != nil {
		return nil, fmt.Errorf("directions cache key: %w", err)
	}

	if cached, err := c.cache.Get(ctx, key); err == nil && cached != "" {
		var it domain.Itinerary
		if err := json.Unmarshal([]byte(cached), &it); err == nil {
			return &it, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cached itinerary")
	}

	it, err := c.next.ComputeRoute(ctx, req)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(it)
	if err != nil {
		log.Warn().Err(err).Msg("encode itinerary for cache")
		return it, nil
	}
	if err := c.cache.Set(ctx, key, string(b)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("directions cache write failed")
	}

	return it, nil
}
