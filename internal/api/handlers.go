package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/locol-hq/locol/internal/eventmanager"
	"github.com/locol-hq/locol/internal/ingestion"
	"github.com/locol-hq/locol/internal/models"
	"log/slog"
)

type Handler struct {
	pipeline   *ingestion.Pipeline
	publisher  *eventmanager.Publisher
	merger     *eventmanager.Merger
	connectors map[string]ingestion.Connector
	events     ingestion.EventStore
	playlists  ingestion.PlaylistStore
	logger     *slog.Logger
	startTime  time.Time
}

func NewHandler(
	pipeline *ingestion.Pipeline,
	publisher *eventmanager.Publisher,
	merger *eventmanager.Merger,
	connectors []ingestion.Connector,
	events ingestion.EventStore,
	playlists ingestion.PlaylistStore,
	logger *slog.Logger,
) *Handler {
	byName := make(map[string]ingestion.Connector, len(connectors))
	for _, conn := range connectors {
		byName[strings.ToLower(conn.Name())] = conn
	}

	return &Handler{
		pipeline:   pipeline,
		publisher:  publisher,
		merger:     merger,
		connectors: byName,
		events:     events,
		playlists:  playlists,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// SyncHandler handles POST /api/sync/{provider}
func (h *Handler) SyncHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	provider := strings.ToLower(strings.TrimPrefix(r.URL.Path, "/api/sync/"))
	if provider == "" {
		http.Error(w, "Provider required", http.StatusBadRequest)
		return
	}

	conn, ok := h.connectors[provider]
	if !ok {
		http.Error(w, "Unknown provider", http.StatusNotFound)
		return
	}

	summary := h.pipeline.Sync(r.Context(), conn)
	status := http.StatusOK
	if summary.Error != "" {
		status = http.StatusBadGateway
	}
	h.writeJSON(w, status, summary)
}

// WebhookScraperHandler handles POST /api/webhook/scraper
func (h *Handler) WebhookScraperHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	payload, err := ingestion.DecodeScraperPayload(r.Body)
	if err != nil {
		h.logger.Error("bad webhook payload", "error", err)
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	summary := h.pipeline.IngestScraped(r.Context(), payload.Adapt())
	status := http.StatusOK
	if summary.Error != "" {
		status = http.StatusBadGateway
	}
	h.writeJSON(w, status, summary)
}

// PublishHandler handles POST /api/publish
func (h *Handler) PublishHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summary := h.publisher.Publish(r.Context())
	status := http.StatusOK
	if summary.Error != "" {
		status = http.StatusBadGateway
	}
	h.writeJSON(w, status, summary)
}

// DedupeHandler handles POST /api/dedupe
func (h *Handler) DedupeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summary := h.merger.Sweep(r.Context())
	status := http.StatusOK
	if summary.Error != "" {
		status = http.StatusBadGateway
	}
	h.writeJSON(w, status, summary)
}

// EventView is a catalog event with its playlist handles resolved for
// display.
type EventView struct {
	models.CatalogEvent
	PlaylistHandles []string `json:"playlist_handles,omitempty"`
}

// EventsResponse wraps the event listing.
type EventsResponse struct {
	Events []EventView `json:"events"`
	Count  int         `json:"count"`
}

// EventsHandler handles GET and POST /api/events
func (h *Handler) EventsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listEvents(w, r)
	case http.MethodPost:
		h.createEvent(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list events", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	idToHandle, err := h.playlistHandleIndex(r)
	if err != nil {
		h.logger.Error("failed to list playlists", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	views := make([]EventView, 0, len(events))
	for _, event := range events {
		view := EventView{CatalogEvent: event}
		for _, id := range event.PlaylistIDs {
			if handle, ok := idToHandle[id]; ok {
				view.PlaylistHandles = append(view.PlaylistHandles, handle)
			}
		}
		views = append(views, view)
	}

	h.writeJSON(w, http.StatusOK, EventsResponse{Events: views, Count: len(views)})
}

// EventSubmission is a manual event submitted from the dashboard.
type EventSubmission struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Link     string `json:"link"`
	Playlist string `json:"playlist"` // handle, e.g. "@BrightonDome"
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var sub EventSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := ValidateEventSubmission(&sub); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var playlistIDs []string
	if sub.Playlist != "" {
		playlists, err := h.playlists.ListAll(r.Context())
		if err != nil {
			h.logger.Error("failed to list playlists", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		found := false
		for _, pl := range playlists {
			if pl.Handle == sub.Playlist {
				playlistIDs = []string{pl.ID}
				found = true
				break
			}
		}
		if !found {
			http.Error(w, "Unknown playlist handle", http.StatusBadRequest)
			return
		}
	}

	created, err := h.events.CreateBatch(r.Context(), []models.CatalogEvent{{
		Title:       sub.Title,
		Date:        sub.Date,
		Link:        sub.Link,
		PlaylistIDs: playlistIDs,
	}})
	if err != nil || len(created) == 0 {
		h.logger.Error("failed to create event", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, created[0])
}

// EventUpdate carries the user-editable fields of a catalog event.
type EventUpdate struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Link        string   `json:"link"`
	PlaylistIDs []string `json:"playlist_ids"`
}

// EventByIDHandler handles PATCH and DELETE /api/events/{id}
func (h *Handler) EventByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/events/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Event ID required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		h.updateEvent(w, r, id)
	case http.MethodDelete:
		h.deleteEvent(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) updateEvent(w http.ResponseWriter, r *http.Request, id string) {
	var update EventUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := ValidateEventUpdate(&update); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	event := models.CatalogEvent{
		Title:       update.Title,
		Date:        update.Date,
		Link:        update.Link,
		PlaylistIDs: update.PlaylistIDs,
	}
	if err := h.events.Update(r.Context(), id, event); err != nil {
		h.logger.Error("failed to update event", "id", id, "error", err)
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.events.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete event", "id", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// PlaylistsHandler handles GET /api/playlists
func (h *Handler) PlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	playlists, err := h.playlists.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list playlists", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"playlists": playlists,
		"count":     len(playlists),
	})
}

// HealthHandler handles GET /healthz
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// InfoHandler handles GET /api/info
func (h *Handler) InfoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	providers := make([]string, 0, len(h.connectors))
	for name := range h.connectors {
		providers = append(providers, name)
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"service":   "locol",
		"uptime":    time.Since(h.startTime).String(),
		"providers": providers,
	})
}

func (h *Handler) playlistHandleIndex(r *http.Request) (map[string]string, error) {
	playlists, err := h.playlists.ListAll(r.Context())
	if err != nil {
		return nil, err
	}

	idToHandle := make(map[string]string, len(playlists))
	for _, pl := range playlists {
		idToHandle[pl.ID] = pl.Handle
	}
	return idToHandle, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
