package cache

import (
	"campus-route-service/internal/domain"
	"campus-route-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const geocodeKeyPrefix = "geocode/"

// RedisGeocodeCache shares geocoding results between server instances.
// Entries expire after TTL; zero keeps them forever.
type RedisGeocodeCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{Client: client, TTL: ttl}
}

func (r *RedisGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.redis.GetMany")(&err)

	uniq := uniqueAddresses(addresses)
	out := make(map[string]domain.Coordinates, len(uniq))
	if len(uniq) == 0 {
		return out, nil
	}

	keys := make([]string, len(uniq))
	for i, a := range uniq {
		keys[i] = geocodeKeyPrefix + a
	}

	values, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: mget: %w", err)
	}

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var c domain.Coordinates
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			continue
		}
		out[uniq[i]] = c
	}
	return out, nil
}

func (r *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.redis.PutMany")(&err)

	if len(results) == 0 {
		return nil
	}

	pipe := r.Client.TxPipeline()
	for addr, c := range results {
		if addr == "" {
			return errors.New("put geocode cache: empty address key")
		}
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("put geocode cache %q: %w", addr, err)
		}
		pipe.Set(ctx, geocodeKeyPrefix+addr, b, r.TTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put geocode cache: exec: %w", err)
	}
	return nil
}
