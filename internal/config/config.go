package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every setting the binaries read from the environment.
type Config struct {
	Port string

	DBDriver    string
	DBPath      string
	DatabaseURL string
	SeedPath    string

	// "google", "ors" or "mock".
	DirectionsProvider string
	GoogleMapsAPIKey   string
	ORSAPIKey          string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	LogLevel  string
	LogFile   string
	LogPretty bool

	SessionIdleTimeout time.Duration

	MapCenterLat float64
	MapCenterLng float64
	MapZoom      int
}

// LoadDotEnv reads a .env file when one is present.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found (using environment variables)")
	}
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load builds a Config from the environment. Call LoadDotEnv first to pick up
// a local .env file.
func Load() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if err := errors.Join(cfg.validateProvider(), cfg.validateStorage()); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// LoadStorage is Load for tools that only touch the database; no directions
// provider settings are required.
func LoadStorage() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.validateStorage(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func parse() (*Config, error) {
	cfg := &Config{
		Port:               Get("PORT", "8080"),
		DBDriver:           Get("DB_DRIVER", "sqlite"),
		DBPath:             Get("DB_PATH", "data/app.db"),
		DatabaseURL:        Get("DATABASE_URL", ""),
		SeedPath:           Get("SEED_PATH", "data/seeds/places.json"),
		DirectionsProvider: strings.ToLower(Get("DIRECTIONS_PROVIDER", "google")),
		GoogleMapsAPIKey:   Get("GOOGLE_MAPS_API_KEY", ""),
		ORSAPIKey:          Get("ORS_API_KEY", ""),
		RedisAddr:          Get("REDIS_ADDRESS", ""),
		RedisPassword:      Get("REDIS_PASSWORD", ""),
		LogLevel:           Get("LOG_LEVEL", "info"),
		LogFile:            Get("LOG_FILE", ""),
	}

	var err error
	var errs []error

	if cfg.RedisDB, err = getInt("REDIS_DATABASE", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.CacheTTL, err = getDuration("DIRECTIONS_CACHE_TTL", 90*time.Minute); err != nil {
		errs = append(errs, err)
	}
	if cfg.SessionIdleTimeout, err = getDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.LogPretty, err = getBool("LOG_PRETTY", false); err != nil {
		errs = append(errs, err)
	}
	// Default view is centered on KU campus.
	if cfg.MapCenterLat, err = getFloat("MAP_CENTER_LAT", 38.957235); err != nil {
		errs = append(errs, err)
	}
	if cfg.MapCenterLng, err = getFloat("MAP_CENTER_LNG", -95.248962); err != nil {
		errs = append(errs, err)
	}
	if cfg.MapZoom, err = getInt("MAP_ZOOM", 16); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validateProvider() error {
	switch c.DirectionsProvider {
	case "google":
		if c.GoogleMapsAPIKey == "" {
			return errors.New("GOOGLE_MAPS_API_KEY is required for the google provider")
		}
	case "ors":
		if c.ORSAPIKey == "" {
			return errors.New("ORS_API_KEY is required for the ors provider")
		}
	case "mock":
	default:
		return fmt.Errorf("DIRECTIONS_PROVIDER %q must be one of google, ors, mock", c.DirectionsProvider)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.postgres() && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for the postgres driver")
	}

	return nil
}

func (c *Config) postgres() bool {
	switch strings.ToLower(c.DBDriver) {
	case "postgres", "postgresql", "pgx":
		return true
	}
	return false
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.postgres() {
		return c.DatabaseURL
	}
	return c.DBPath
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, v)
	}
	return f, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
