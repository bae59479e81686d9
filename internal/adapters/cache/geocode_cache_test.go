package cache

import (
	"campus-route-service/internal/adapters/repositories"
	"campus-route-service/internal/domain"
	"campus-route-service/internal/platform/db"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type geocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

func exerciseGeocodeCache(t *testing.T, c geocodeCache) {
	ctx := context.Background()

	got, err := c.GetMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{
		"watson library": {Lat: 38.9575, Lng: -95.2459},
		"union":          {Lat: 38.9591, Lng: -95.2436},
	}))

	got, err = c.GetMany(ctx, []string{"union", " union ", "stadium", "", "watson library"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{
		"watson library": {Lat: 38.9575, Lng: -95.2459},
		"union":          {Lat: 38.9591, Lng: -95.2436},
	}, got)

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{"union": {Lat: 1, Lng: 2}}))
	got, err = c.GetMany(ctx, []string{"union"})
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lat: 1, Lng: 2}, got["union"])

	assert.Error(t, c.PutMany(ctx, map[string]domain.Coordinates{"": {}}))
}

func TestSQLGeocodeCacheSqlite(t *testing.T) {
	conn, err := db.Open(context.Background(), db.Sqlite, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, repositories.InitSchema(context.Background(), conn, db.Sqlite))

	c := NewSQLGeocodeCache(conn, db.Sqlite)
	exerciseGeocodeCache(t, c)

	assert.Error(t, c.PutMany(context.Background(), map[string]domain.Coordinates{"x": {Lat: 100}}))
}

func TestSQLGeocodeCacheNilDB(t *testing.T) {
	_, err := (&SQLGeocodeCache{}).GetMany(context.Background(), []string{"a"})
	assert.Error(t, err)
}

func TestRedisGeocodeCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisGeocodeCache(client, time.Hour)
	exerciseGeocodeCache(t, c)

	assert.True(t, mr.Exists("geocode/union"))
	mr.FastForward(2 * time.Hour)
	got, err := c.GetMany(context.Background(), []string{"union"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
