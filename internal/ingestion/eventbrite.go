package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/locol-hq/locol/internal/models"
)

const (
	eventbriteSearchURL = "https://www.eventbriteapi.com/v3/destination/events/"

	eventbriteSource = "Eventbrite"

	// Destination search is noisy, so each regional query keeps only its
	// first few hits.
	eventbriteRegionCap = 10
)

// NewEventbriteConnector builds the Eventbrite destination-search adapter.
// Each query maps to its own playlist handle ("@EventbriteBrighton" for
// "Brighton" and so on).
func NewEventbriteConnector(token string, queries []string) *APIConnector {
	return newAPIConnector(eventbriteSource, queries, func(ctx context.Context, client *http.Client, query string) ([]models.EventDraft, error) {
		params := url.Values{}
		params.Set("q", query)
		params.Set("page_size", "20")

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, eventbriteSearchURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if err := checkStatus(resp, eventbriteSource); err != nil {
			return nil, err
		}
		return decodeEventbriteResponse(resp.Body, query)
	})
}

type eventbriteEvent struct {
	Name struct {
		Text string `json:"text"`
	} `json:"name"`
	URL   string `json:"url"`
	Start struct {
		Local string `json:"local"`
	} `json:"start"`
}

func decodeEventbriteResponse(r io.Reader, query string) ([]models.EventDraft, error) {
	var body struct {
		Events           []eventbriteEvent `json:"events"`
		Error            string            `json:"error"`
		ErrorDescription string            `json:"error_description"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode eventbrite response: %w", err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("eventbrite error %s: %s", body.Error, body.ErrorDescription)
	}

	events := body.Events
	if len(events) > eventbriteRegionCap {
		events = events[:eventbriteRegionCap]
	}

	playlist := eventbritePlaylist(query)
	drafts := make([]models.EventDraft, 0, len(events))
	for _, ev := range events {
		drafts = append(drafts, models.EventDraft{
			Title:    ev.Name.Text,
			Date:     eventbriteDate(ev.Start.Local),
			Link:     ev.URL,
			Links:    []models.SourceLink{{Playlist: playlist, URL: ev.URL}},
			Source:   eventbriteSource,
			Playlist: playlist,
			Status:   models.StagingStatusApproved,
		})
	}
	return drafts, nil
}

// eventbritePlaylist derives the per-region handle, "@EventbriteBrighton"
// for the "Brighton" query.
func eventbritePlaylist(query string) string {
	return "@" + eventbriteSource + strings.ReplaceAll(query, " ", "")
}

// eventbriteDate keeps the date portion of a local start timestamp
// ("2025-07-04T19:30:00" becomes "2025-07-04").
func eventbriteDate(local string) string {
	date, _, _ := strings.Cut(local, "T")
	return date
}
