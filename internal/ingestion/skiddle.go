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
	skiddleSearchURL = "https://www.skiddle.com/api/v1/events/search/"

	skiddleSource   = "Skiddle"
	skiddlePlaylist = "@Skiddle"
)

// NewSkiddleConnector builds the Skiddle adapter. Queries are keyword
// searches, one per covered town.
func NewSkiddleConnector(apiKey string, queries []string) *APIConnector {
	return newAPIConnector(skiddleSource, queries, func(ctx context.Context, client *http.Client, query string) ([]models.EventDraft, error) {
		params := url.Values{}
		params.Set("api_key", apiKey)
		params.Set("keyword", query)
		params.Set("limit", "50")

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, skiddleSearchURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if err := checkStatus(resp, skiddleSource); err != nil {
			return nil, err
		}
		return decodeSkiddleResponse(resp.Body)
	})
}

type skiddleEvent struct {
	EventName string `json:"eventname"`
	EventCode string `json:"EventCode"`
	Date      string `json:"date"`
	Link      string `json:"link"`
	Venue     struct {
		Name string `json:"name"`
	} `json:"venue"`
}

func decodeSkiddleResponse(r io.Reader) ([]models.EventDraft, error) {
	var body struct {
		Results []skiddleEvent `json:"results"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode skiddle response: %w", err)
	}

	drafts := make([]models.EventDraft, 0, len(body.Results))
	for _, ev := range body.Results {
		drafts = append(drafts, models.EventDraft{
			Title:    skiddleTitle(ev),
			Date:     ev.Date,
			Link:     ev.Link,
			Links:    []models.SourceLink{{Playlist: skiddlePlaylist, URL: ev.Link}},
			Source:   skiddleSource,
			Playlist: skiddlePlaylist,
			Status:   models.StagingStatusApproved,
		})
	}
	return drafts, nil
}

// skiddleTitle assembles "Name (EventCode) @ Venue". The event code is
// omitted when absent; an unnamed venue falls back to a placeholder.
func skiddleTitle(ev skiddleEvent) string {
	venue := ev.Venue.Name
	if venue == "" {
		venue = "Unknown Venue"
	}

	title := ev.EventName
	if ev.EventCode != "" {
		title += fmt.Sprintf(" (%s)", ev.EventCode)
	}
	return fmt.Sprintf("%s @ %s", title, venue)
}
