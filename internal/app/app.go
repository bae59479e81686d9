// Package app is the composition root shared by the binaries. It wires
// concrete adapters behind ports.
package app

import (
	"campus-route-service/internal/adapters/cache"
	"campus-route-service/internal/adapters/directions"
	"campus-route-service/internal/adapters/render"
	"campus-route-service/internal/adapters/repositories"
	"campus-route-service/internal/config"
	"campus-route-service/internal/domain"
	"campus-route-service/internal/platform/db"
	"campus-route-service/internal/platform/redisclient"
	"campus-route-service/internal/ports"
	"campus-route-service/internal/services"
	"campus-route-service/internal/sessions"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type App struct {
	Config   *config.Config
	DB       *sql.DB
	Dialect  db.Dialect
	Places   ports.PlaceRepository
	Provider ports.DirectionsProvider
	Redis    *redis.Client
	Sessions *sessions.Store
}

// New opens the catalogue, seeds it on first run and builds the directions
// provider chain.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("new app: %w", err)
	}

	conn, err := db.Open(ctx, dialect, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("new app: %w", err)
	}

	a := &App{
		Config:  cfg,
		DB:      conn,
		Dialect: dialect,
		Places:  repositories.NewSQLPlaceRepository(conn, dialect),
	}

	if err := a.initCatalogue(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("new app: %w", err)
	}

	if cfg.RedisAddr != "" {
		a.Redis, err = redisclient.Connect(ctx, redisclient.Options{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Database: cfg.RedisDB,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("new app: %w", err)
		}
	}

	a.Provider, err = a.buildProvider(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("new app: %w", err)
	}

	a.Sessions = sessions.NewStore(a.NewSession)
	return a, nil
}

// initCatalogue creates the schema and seeds an empty catalogue when a seed
// file is available.
func (a *App) initCatalogue(ctx context.Context) error {
	if err := repositories.InitSchema(ctx, a.DB, a.Dialect); err != nil {
		return err
	}

	places, err := a.Places.ListPlaces(ctx)
	if err != nil {
		return err
	}
	if len(places) > 0 {
		return nil
	}

	if _, err := os.Stat(a.Config.SeedPath); errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("path", a.Config.SeedPath).Msg("catalogue is empty and no seed file was found")
		return nil
	}

	n, err := repositories.SeedFromJSON(ctx, a.DB, a.Dialect, a.Config.SeedPath)
	if err != nil {
		return err
	}
	log.Info().Int("places", n).Str("path", a.Config.SeedPath).Msg("seeded catalogue")
	return nil
}

func (a *App) buildProvider(ctx context.Context) (ports.DirectionsProvider, error) {
	places, err := a.Places.ListPlaces(ctx)
	if err != nil {
		return nil, err
	}

	var provider ports.DirectionsProvider
	switch a.Config.DirectionsProvider {
	case "google":
		provider, err = directions.NewGoogleProvider(a.Config.GoogleMapsAPIKey)
	case "ors":
		var geocodeCache directions.GeocodeCache = cache.NewSQLGeocodeCache(a.DB, a.Dialect)
		if a.Redis != nil {
			geocodeCache = cache.NewRedisGeocodeCache(a.Redis, 0)
		}
		provider, err = directions.NewORSProvider(
			a.Config.ORSAPIKey,
			directions.WithGeocodeCache(geocodeCache),
			directions.WithCatalogue(places),
			directions.WithFocusPoint(a.mapCenter()),
		)
	case "mock":
		provider = directions.NewMockDirectionsProvider(places)
	default:
		err = fmt.Errorf("unknown directions provider %q", a.Config.DirectionsProvider)
	}
	if err != nil {
		return nil, err
	}

	if a.Redis != nil {
		provider = directions.NewCachedProvider(provider, a.Redis, a.Config.CacheTTL)
	}

	log.Info().
		Str("provider", a.Config.DirectionsProvider).
		Bool("redis", a.Redis != nil).
		Str("db", string(a.Dialect)).
		Msg("directions provider ready")
	return provider, nil
}

func (a *App) mapCenter() domain.Coordinates {
	return domain.Coordinates{Lat: a.Config.MapCenterLat, Lng: a.Config.MapCenterLng}
}

// NewSession builds a fresh orchestrator over the current catalogue with its
// own map model.
func (a *App) NewSession() (*services.Orchestrator, *render.GeoJSONRenderer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	places, err := a.Places.ListPlaces(ctx)
	if err != nil {
		return nil, nil, err
	}

	renderer := render.NewGeoJSONRenderer(render.View{Center: a.mapCenter(), Zoom: a.Config.MapZoom})
	orch, err := services.NewOrchestrator(places, a.Provider, renderer)
	if err != nil {
		return nil, nil, err
	}
	return orch, renderer, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}
}
