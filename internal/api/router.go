package api

import (
	"net/http"

	"github.com/locol-hq/locol/internal/eventmanager"
	"github.com/locol-hq/locol/internal/ingestion"
	"log/slog"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	mux *http.ServeMux,
	pipeline *ingestion.Pipeline,
	publisher *eventmanager.Publisher,
	merger *eventmanager.Merger,
	connectors []ingestion.Connector,
	events ingestion.EventStore,
	playlists ingestion.PlaylistStore,
	logger *slog.Logger,
) {
	handler := NewHandler(pipeline, publisher, merger, connectors, events, playlists, logger)

	// Ingestion triggers
	mux.HandleFunc("/api/sync/", handler.SyncHandler)
	mux.HandleFunc("/api/webhook/scraper", handler.WebhookScraperHandler)

	// Publication and catalog maintenance
	mux.HandleFunc("/api/publish", handler.PublishHandler)
	mux.HandleFunc("/api/dedupe", handler.DedupeHandler)

	// Catalog management
	mux.HandleFunc("/api/events", handler.EventsHandler)
	mux.HandleFunc("/api/events/", handler.EventByIDHandler)
	mux.HandleFunc("/api/playlists", handler.PlaylistsHandler)

	// Service health and metadata
	mux.HandleFunc("/healthz", handler.HealthHandler)
	mux.HandleFunc("/api/info", handler.InfoHandler)
}
