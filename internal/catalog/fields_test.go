package catalog

import (
	"testing"

	"github.com/locol-hq/locol/internal/models"
)

func TestLinksColumnRoundTrip(t *testing.T) {
	// Insertion order carries first-seen precedence and URL duplicates
	// are deliberate, so both must survive the column round-trip.
	links := []models.SourceLink{
		{Playlist: "@Skiddle", URL: "https://skiddle.com/e/1"},
		{Playlist: "@BrightonDome", URL: "https://brightondome.org/e/1"},
		{Playlist: "@Eventbrite", URL: "https://skiddle.com/e/1"},
	}

	got := linksFromJSON(linksToJSON(links))
	if len(got) != len(links) {
		t.Fatalf("round-trip returned %d links, want %d", len(got), len(links))
	}
	for i, want := range links {
		if got[i] != want {
			t.Errorf("link %d = %+v, want %+v", i, got[i], want)
		}
	}
}

func TestLinksColumnEmptyAndLegacyRows(t *testing.T) {
	if raw := linksToJSON(nil); raw != "" {
		t.Errorf("linksToJSON(nil) = %q, want empty column", raw)
	}
	if links := linksFromJSON(""); links != nil {
		t.Errorf("linksFromJSON(\"\") = %v, want nil", links)
	}
	// Rows written before the column held JSON parse as no links.
	if links := linksFromJSON("see website"); links != nil {
		t.Errorf("linksFromJSON(legacy text) = %v, want nil", links)
	}
}

func TestStagingFieldsCarriesLinksColumn(t *testing.T) {
	draft := models.EventDraft{
		Title:    "Club Night",
		Date:     "2025-10-04",
		Link:     "https://skiddle.com/e/1",
		Links:    []models.SourceLink{{Playlist: "@Skiddle", URL: "https://skiddle.com/e/1"}},
		Source:   "Skiddle",
		Playlist: "@Skiddle",
		Status:   models.StagingStatusApproved,
	}

	fields := stagingFields(draft)
	raw, ok := fields[colLinks].(string)
	if !ok || raw == "" {
		t.Fatalf("fields[%q] = %v, want JSON string", colLinks, fields[colLinks])
	}

	restored := linksFromJSON(raw)
	if len(restored) != 1 || restored[0] != draft.Links[0] {
		t.Errorf("restored links = %+v, want %+v", restored, draft.Links)
	}
}
