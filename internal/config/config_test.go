package config

import (
	"os"
	"testing"
	"time"

	"log/slog"
)

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != defaultPort {
		t.Errorf("expected default port %q, got %q", defaultPort, cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Errorf("expected default read timeout %v, got %v", defaultReadTimeout, cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != defaultShutdownTimeout {
		t.Errorf("expected default shutdown timeout %v, got %v", defaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	}
	if cfg.Logging.Level != slog.LevelInfo {
		t.Errorf("expected default log level %v, got %v", slog.LevelInfo, cfg.Logging.Level)
	}
	if cfg.Logging.Format != defaultLogFormat {
		t.Errorf("expected default log format %q, got %q", defaultLogFormat, cfg.Logging.Format)
	}
	if cfg.Catalog.BaseURL != defaultCatalogBaseURL {
		t.Errorf("expected default catalog URL %q, got %q", defaultCatalogBaseURL, cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.StagingTable != defaultStagingTable || cfg.Catalog.EventsTable != defaultEventsTable {
		t.Errorf("expected default table names, got %q/%q", cfg.Catalog.StagingTable, cfg.Catalog.EventsTable)
	}
	if len(cfg.Providers.Regions) != 2 {
		t.Errorf("expected default regions, got %v", cfg.Providers.Regions)
	}
}

func TestLoadRequiresCatalogCredentials(t *testing.T) {
	tests := []string{"CATALOG_API_KEY", "CATALOG_BASE_ID"}

	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, "")

			if _, err := Load(); err == nil {
				t.Fatalf("expected error when %s is unset", key)
			}
		})
	}
}

func TestLoadWithOverrides(t *testing.T) {
	clearConfigEnv(t)

	overrides := map[string]string{
		"SERVER_PORT":                     "9090",
		"SERVER_READ_TIMEOUT_SECONDS":     "30",
		"SERVER_WRITE_TIMEOUT_SECONDS":    "45",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS": "15",
		"LOG_LEVEL":                       "debug",
		"LOG_FORMAT":                      "text",
		"CATALOG_API_URL":                 "http://localhost:9999/v0",
		"CATALOG_STAGING_TABLE":           "StagingTest",
		"SYNC_REGIONS":                    "Brighton, Hove,Lewes",
		"SKIDDLE_API_KEY":                 "sk-test",
	}
	for key, value := range overrides {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected overridden port, got %q", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second || cfg.Server.WriteTimeout != 45*time.Second {
		t.Errorf("expected overridden timeouts, got %v/%v", cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	}
	if cfg.Logging.Level != slog.LevelDebug || cfg.Logging.Format != "text" {
		t.Errorf("expected overridden logging, got %v/%q", cfg.Logging.Level, cfg.Logging.Format)
	}
	if cfg.Catalog.BaseURL != "http://localhost:9999/v0" {
		t.Errorf("expected overridden catalog URL, got %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.StagingTable != "StagingTest" {
		t.Errorf("expected overridden staging table, got %q", cfg.Catalog.StagingTable)
	}

	wantRegions := []string{"Brighton", "Hove", "Lewes"}
	if len(cfg.Providers.Regions) != len(wantRegions) {
		t.Fatalf("regions = %v, want %v", cfg.Providers.Regions, wantRegions)
	}
	for i, region := range wantRegions {
		if cfg.Providers.Regions[i] != region {
			t.Errorf("regions = %v, want %v", cfg.Providers.Regions, wantRegions)
			break
		}
	}
	if cfg.Providers.SkiddleAPIKey != "sk-test" {
		t.Errorf("expected Skiddle key, got %q", cfg.Providers.SkiddleAPIKey)
	}
}

func TestLoadMissingProviderKeysIsNotAnError(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Providers.SkiddleAPIKey != "" || cfg.Providers.EventbriteToken != "" {
		t.Errorf("expected empty provider credentials, got %+v", cfg.Providers)
	}
}

func TestLoadWithInvalidValues(t *testing.T) {
	tests := map[string]string{
		"SERVER_READ_TIMEOUT_SECONDS":     "-1",
		"SERVER_WRITE_TIMEOUT_SECONDS":    "abc",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS": "3.5",
		"LOG_LEVEL":                       "verbose",
		"LOG_FORMAT":                      "xml",
		"SYNC_REGIONS":                    " , ,",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error when %s=%q", key, value)
			}
		})
	}
}

func TestParseLogLevelAliases(t *testing.T) {
	tests := map[string]slog.Level{
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
	}

	for input, expected := range tests {
		level, err := parseLogLevel(input)
		if err != nil {
			t.Fatalf("parseLogLevel(%q) returned error: %v", input, err)
		}

		if level != expected {
			t.Errorf("parseLogLevel(%q) = %v, want %v", input, level, expected)
		}
	}
}

func TestLoadDoesNotPersistEnvBetweenRuns(t *testing.T) {
	clearConfigEnv(t)

	t.Setenv("SERVER_READ_TIMEOUT_SECONDS", "5")
	if _, err := Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.Unsetenv("SERVER_READ_TIMEOUT_SECONDS"); err != nil {
		t.Fatalf("failed to unset env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Errorf("expected default read timeout after reset, got %v", cfg.Server.ReadTimeout)
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT",
		"SERVER_PORT",
		"SERVER_READ_TIMEOUT_SECONDS",
		"SERVER_WRITE_TIMEOUT_SECONDS",
		"SERVER_SHUTDOWN_TIMEOUT_SECONDS",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"CATALOG_API_URL",
		"CATALOG_STAGING_TABLE",
		"CATALOG_EVENTS_TABLE",
		"CATALOG_PLAYLISTS_TABLE",
		"SYNC_REGIONS",
		"SKIDDLE_API_KEY",
		"TICKETMASTER_API_KEY",
		"EVENTBRITE_TOKEN",
	}

	for _, key := range keys {
		t.Setenv(key, "")
	}

	// Credentials the loader requires.
	t.Setenv("CATALOG_API_KEY", "test-key")
	t.Setenv("CATALOG_BASE_ID", "appTEST")
}
