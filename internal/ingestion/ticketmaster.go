package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/locol-hq/locol/internal/models"
)

const (
	ticketmasterSearchURL = "https://app.ticketmaster.com/discovery/v2/events.json"

	ticketmasterSource   = "Ticketmaster"
	ticketmasterPlaylist = "@Ticketmaster"
)

// NewTicketmasterConnector builds the Ticketmaster Discovery adapter.
// Queries are city names; coverage is limited to GB.
func NewTicketmasterConnector(apiKey string, cities []string) *APIConnector {
	return newAPIConnector(ticketmasterSource, cities, func(ctx context.Context, client *http.Client, city string) ([]models.EventDraft, error) {
		params := url.Values{}
		params.Set("apikey", apiKey)
		params.Set("city", city)
		params.Set("countryCode", "GB")
		params.Set("size", "50")

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ticketmasterSearchURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if err := checkStatus(resp, ticketmasterSource); err != nil {
			return nil, err
		}
		return decodeTicketmasterResponse(resp.Body)
	})
}

type ticketmasterEvent struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Dates struct {
		Start struct {
			LocalDate string `json:"localDate"`
		} `json:"start"`
	} `json:"dates"`
}

func decodeTicketmasterResponse(r io.Reader) ([]models.EventDraft, error) {
	var body struct {
		Embedded struct {
			Events []ticketmasterEvent `json:"events"`
		} `json:"_embedded"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode ticketmaster response: %w", err)
	}

	drafts := make([]models.EventDraft, 0, len(body.Embedded.Events))
	for _, ev := range body.Embedded.Events {
		drafts = append(drafts, models.EventDraft{
			Title:    ev.Name,
			Date:     ev.Dates.Start.LocalDate,
			Link:     ev.URL,
			Links:    []models.SourceLink{{Playlist: ticketmasterPlaylist, URL: ev.URL}},
			Source:   ticketmasterSource,
			Playlist: ticketmasterPlaylist,
			Status:   models.StagingStatusApproved,
		})
	}
	return drafts, nil
}
