package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents runtime configuration derived from environment variables.
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Catalog   CatalogConfig
	Providers ProvidersConfig
}

// ServerConfig holds HTTP server runtime parameters.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoggingConfig represents structured logging configuration.
type LoggingConfig struct {
	Level  slog.Level
	Format string
}

// CatalogConfig addresses the hosted record store.
type CatalogConfig struct {
	BaseURL       string
	APIKey        string
	BaseID        string
	StagingTable  string
	EventsTable   string
	PlaylistTable string
}

// ProvidersConfig carries upstream credentials and regional coverage. A
// missing credential leaves that provider disabled rather than failing
// startup.
type ProvidersConfig struct {
	SkiddleAPIKey      string
	TicketmasterAPIKey string
	EventbriteToken    string
	Regions            []string
}

const (
	defaultPort            = "8080"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultShutdownTimeout = 5 * time.Second

	defaultLogFormat = "json"

	defaultCatalogBaseURL = "https://api.airtable.com/v0"
	defaultStagingTable   = "Staging"
	defaultEventsTable    = "Events"
	defaultPlaylistTable  = "Playlists"
)

var defaultRegions = []string{"Brighton", "Worthing"}

// Load reads configuration from environment variables, applying defaults
// when values are not provided. The catalog credentials are the only hard
// requirement; everything else has a usable default.
func Load() (Config, error) {
	// Cloud Run sets PORT, but allow SERVER_PORT override for local dev
	port := getEnv("PORT", "")
	if port == "" {
		port = getEnv("SERVER_PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            port,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:  slog.LevelInfo,
			Format: defaultLogFormat,
		},
		Catalog: CatalogConfig{
			BaseURL:       getEnv("CATALOG_API_URL", defaultCatalogBaseURL),
			APIKey:        os.Getenv("CATALOG_API_KEY"),
			BaseID:        os.Getenv("CATALOG_BASE_ID"),
			StagingTable:  getEnv("CATALOG_STAGING_TABLE", defaultStagingTable),
			EventsTable:   getEnv("CATALOG_EVENTS_TABLE", defaultEventsTable),
			PlaylistTable: getEnv("CATALOG_PLAYLISTS_TABLE", defaultPlaylistTable),
		},
		Providers: ProvidersConfig{
			SkiddleAPIKey:      os.Getenv("SKIDDLE_API_KEY"),
			TicketmasterAPIKey: os.Getenv("TICKETMASTER_API_KEY"),
			EventbriteToken:    os.Getenv("EVENTBRITE_TOKEN"),
			Regions:            defaultRegions,
		},
	}

	if cfg.Catalog.APIKey == "" {
		return Config{}, fmt.Errorf("CATALOG_API_KEY is required")
	}
	if cfg.Catalog.BaseID == "" {
		return Config{}, fmt.Errorf("CATALOG_BASE_ID is required")
	}

	if v := os.Getenv("SYNC_REGIONS"); v != "" {
		regions := splitRegions(v)
		if len(regions) == 0 {
			return Config{}, fmt.Errorf("invalid SYNC_REGIONS: no usable entries")
		}
		cfg.Providers.Regions = regions
	}

	if v := os.Getenv("SERVER_READ_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_READ_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.ReadTimeout = d
	}

	if v := os.Getenv("SERVER_WRITE_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.WriteTimeout = d
	}

	if v := os.Getenv("SERVER_SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.ShutdownTimeout = d
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.Logging.Level = level
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		switch v {
		case "json", "text":
			cfg.Logging.Format = v
		default:
			return Config{}, fmt.Errorf("invalid LOG_FORMAT: must be 'json' or 'text'")
		}
	}

	return cfg, nil
}

func splitRegions(raw string) []string {
	var regions []string
	for _, part := range strings.Split(raw, ",") {
		if region := strings.TrimSpace(part); region != "" {
			regions = append(regions, region)
		}
	}
	return regions
}

func parseSeconds(raw string) (time.Duration, error) {
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return time.Duration(seconds) * time.Second, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("must be one of debug, info, warn, error")
	}
}
