package ingestion

import (
	"strings"
	"testing"
)

func TestAdaptScrapedPayload(t *testing.T) {
	body := `{
		"source": "brighton-dome",
		"task": {
			"capturedLists": {
				"Events": [
					{"Title": "Hope & Ruin", "Subtitle": "Indie Night", "Venue": "The Dome", "Date": "25 December 2025", "URL": "https://www.brightondome.org/event/123"},
					{"Title": "No Date Gig", "Date": "call venue for details", "URL": "https://www.brightondome.org/event/456"}
				]
			}
		}
	}`

	payload, err := DecodeScraperPayload(strings.NewReader(body))
	if err != nil {
		t.Fatalf("DecodeScraperPayload: %v", err)
	}

	drafts := payload.Adapt()
	if len(drafts) != 1 {
		t.Fatalf("Adapt returned %d drafts, want 1 (unparseable date dropped)", len(drafts))
	}

	draft := drafts[0]
	if draft.Title != "Hope & Ruin - Indie Night @ The Dome" {
		t.Errorf("title = %q", draft.Title)
	}
	if draft.Date != "2025-12-25" {
		t.Errorf("date = %q, want 2025-12-25", draft.Date)
	}
	if draft.Source != "Brighton Dome" || draft.Playlist != "@BrightonDome" {
		t.Errorf("tag = %q/%q, want Brighton Dome/@BrightonDome", draft.Source, draft.Playlist)
	}
}

func TestAdaptExpandsDateRanges(t *testing.T) {
	body := `{
		"task": {
			"capturedLists": {
				"Events": [
					{"Title": "Fringe Run", "Date": "Mon 3 - Wed 5 March 2026", "URL": "https://example.com/fringe"}
				]
			}
		}
	}`

	payload, err := DecodeScraperPayload(strings.NewReader(body))
	if err != nil {
		t.Fatalf("DecodeScraperPayload: %v", err)
	}

	drafts := payload.Adapt()
	if len(drafts) != 3 {
		t.Fatalf("Adapt returned %d drafts, want one per day", len(drafts))
	}
	for i, want := range []string{"2026-03-03", "2026-03-04", "2026-03-05"} {
		if drafts[i].Date != want {
			t.Errorf("draft %d date = %q, want %q", i, drafts[i].Date, want)
		}
		if drafts[i].Title != "Fringe Run" {
			t.Errorf("draft %d title = %q", i, drafts[i].Title)
		}
	}
}

func TestScrapedTitle(t *testing.T) {
	tests := []struct {
		name string
		item ScrapedItem
		want string
	}{
		{
			"all parts",
			ScrapedItem{Title: "Gig", Subtitle: "Late Show", Category: "Music", Venue: "The Dome"},
			"Gig - Late Show - Music @ The Dome",
		},
		{
			"empty parts omitted",
			ScrapedItem{Title: "Gig", Venue: "The Dome"},
			"Gig @ The Dome",
		},
		{
			"venue only",
			ScrapedItem{Venue: "The Dome"},
			"The Dome",
		},
		{
			"all empty",
			ScrapedItem{},
			"Untitled Event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scrapedTitle(tt.item); got != tt.want {
				t.Errorf("scrapedTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInferScraperTag(t *testing.T) {
	tests := []struct {
		name         string
		explicit     string
		link         string
		wantSource   string
		wantPlaylist string
	}{
		{"known explicit source", "brighton-dome", "", "Brighton Dome", "@BrightonDome"},
		{"known domain", "", "https://www.brightondome.org/event/1", "Brighton Dome", "@BrightonDome"},
		{"unknown domain synthesizes tag", "", "https://example.com/whats-on", "example", "@example"},
		{"case and www stripped", "", "HTTPS://WWW.Example.COM/x", "example", "@example"},
		{"no usable link", "", "", "unknown", "@unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := inferScraperTag(tt.explicit, tt.link)
			if tag.source != tt.wantSource || tag.playlist != tt.wantPlaylist {
				t.Errorf("inferScraperTag(%q, %q) = %q/%q, want %q/%q",
					tt.explicit, tt.link, tag.source, tag.playlist, tt.wantSource, tt.wantPlaylist)
			}
		})
	}
}
