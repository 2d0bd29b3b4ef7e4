package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/locol-hq/locol/internal/api"
	"github.com/locol-hq/locol/internal/catalog"
	"github.com/locol-hq/locol/internal/config"
	"github.com/locol-hq/locol/internal/eventmanager"
	"github.com/locol-hq/locol/internal/ingestion"
	"github.com/locol-hq/locol/internal/logging"
	"github.com/locol-hq/locol/internal/metrics"
	"github.com/locol-hq/locol/internal/server"
	"log/slog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting locol")

	client, err := catalog.New(catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
		BaseID:  cfg.Catalog.BaseID,
	})
	if err != nil {
		logger.Error("failed to init catalog client", "error", err)
		os.Exit(1)
	}

	stagingStore := catalog.NewStagingStore(client, cfg.Catalog.StagingTable)
	eventStore := catalog.NewEventStore(client, cfg.Catalog.EventsTable)
	playlistStore := catalog.NewPlaylistStore(client, cfg.Catalog.PlaylistTable)

	// Connectors gated on their credentials: a missing key disables the
	// provider without failing startup.
	var connectors []ingestion.Connector
	if key := cfg.Providers.SkiddleAPIKey; key != "" {
		connectors = append(connectors, ingestion.NewSkiddleConnector(key, cfg.Providers.Regions))
	} else {
		logger.Warn("SKIDDLE_API_KEY not set, Skiddle sync disabled")
	}
	if key := cfg.Providers.TicketmasterAPIKey; key != "" {
		connectors = append(connectors, ingestion.NewTicketmasterConnector(key, cfg.Providers.Regions))
	} else {
		logger.Warn("TICKETMASTER_API_KEY not set, Ticketmaster sync disabled")
	}
	if token := cfg.Providers.EventbriteToken; token != "" {
		connectors = append(connectors, ingestion.NewEventbriteConnector(token, cfg.Providers.Regions))
	} else {
		logger.Warn("EVENTBRITE_TOKEN not set, Eventbrite sync disabled")
	}
	logger.Info("connectors configured", "count", len(connectors), "regions", cfg.Providers.Regions)

	collector, err := metrics.New()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	pipeline := ingestion.NewPipeline(stagingStore, logger, collector)
	publisher := eventmanager.NewPublisher(stagingStore, eventStore, playlistStore, logger, collector)
	merger := eventmanager.NewMerger(eventStore, logger, collector)

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	api.SetupRoutes(mux, pipeline, publisher, merger, connectors, eventStore, playlistStore, logger)

	handler := server.DashboardMiddleware(collector.InstrumentHandler(mux), "./web/dist", "./web/dist/index.html")
	srv := server.New(cfg.Server, logger, handler)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("locol started successfully")
	logger.Info("API available", "url", fmt.Sprintf("http://localhost:%s", cfg.Server.Port))

	waitForSignal(logger)

	logger.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

func waitForSignal(logger *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	sig := <-c
	logger.Info("received signal", "signal", sig.String())
	signal.Stop(c)
	close(c)
}
