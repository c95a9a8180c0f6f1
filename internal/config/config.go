package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// seasonEndMonth is the first month in which the spring season counts as
// complete.
const seasonEndMonth = time.July

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset and analytics.
	DataDir               string
	CurrentSeasonEndYear  int
	TrajectoryWindowYears int
	MetricsConcurrency    int

	// Classification store.
	StoreDriver string
	StoreDSN    string

	// Classification changelog.
	KafkaEnabled             bool
	KafkaBrokers             []string
	KafkaClassificationTopic string

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeoutStr := sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s")
	mapboxTimeout, err := time.ParseDuration(mapboxTimeoutStr)
	if err != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	seasonYear, err := positiveInt("CURRENT_SEASON_END_YEAR", DefaultSeasonEndYear(domain.Clock().Now()))
	if err != nil {
		return nil, err
	}
	window, err := positiveInt("TRAJECTORY_WINDOW_YEARS", 10)
	if err != nil {
		return nil, err
	}
	if window < 2 {
		return nil, errors.New("TRAJECTORY_WINDOW_YEARS must be at least 2")
	}
	concurrency, err := positiveInt("METRICS_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataDir:               sharedcfg.EnvOrDefault("DATA_DIR", "data"),
		CurrentSeasonEndYear:  seasonYear,
		TrajectoryWindowYears: window,
		MetricsConcurrency:    concurrency,

		StoreDriver: sharedcfg.EnvOrDefault("STORE_DRIVER", DriverSQLite),
		StoreDSN:    sharedcfg.EnvOrDefault("STORE_DSN", "program-finder.db"),

		KafkaEnabled:             os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:             sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaClassificationTopic: sharedcfg.EnvOrDefault("KAFKA_CLASSIFICATION_TOPIC", "program-classifications"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),
	}

	if cfg.StoreDriver != DriverSQLite && cfg.StoreDriver != DriverPostgres {
		return nil, fmt.Errorf("STORE_DRIVER %q: must be %s or %s", cfg.StoreDriver, DriverSQLite, DriverPostgres)
	}
	if cfg.StoreDSN == "" {
		return nil, errors.New("STORE_DSN is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaClassificationTopic == "" {
		return nil, errors.New("KAFKA_CLASSIFICATION_TOPIC is required when KAFKA_ENABLED is true")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

// DefaultSeasonEndYear returns the end year of the latest completed college
// season at now. Seasons finish in June.
func DefaultSeasonEndYear(now time.Time) int {
	if now.Month() >= seasonEndMonth {
		return now.Year()
	}
	return now.Year() - 1
}

func positiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
