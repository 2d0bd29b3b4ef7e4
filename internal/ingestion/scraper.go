package ingestion

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/locol-hq/locol/internal/dates"
	"github.com/locol-hq/locol/internal/models"
)

// ScrapedItem is one raw captured record as the scraping service emits it.
type ScrapedItem struct {
	Title    string `json:"Title"`
	Subtitle string `json:"Subtitle"`
	Category string `json:"Category"`
	Venue    string `json:"Venue"`
	Date     string `json:"Date"`
	URL      string `json:"URL"`
}

// ScraperPayload is the webhook body: named capture lists under a task
// wrapper, plus an optional explicit source identifier.
type ScraperPayload struct {
	Source string `json:"source"`
	Task   struct {
		CapturedLists map[string][]ScrapedItem `json:"capturedLists"`
	} `json:"task"`
}

// DecodeScraperPayload parses a webhook request body.
func DecodeScraperPayload(r io.Reader) (*ScraperPayload, error) {
	var payload ScraperPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode scraper payload: %w", err)
	}
	return &payload, nil
}

type scraperTag struct {
	source   string
	playlist string
}

// Known scrape targets, keyed by the explicit source identifier and by
// link domain. Unknown domains fall back to a synthesized tag.
var scraperSourceTags = map[string]scraperTag{
	"brighton-dome": {source: "Brighton Dome", playlist: "@BrightonDome"},
}

var scraperDomainTags = map[string]scraperTag{
	"brightondome.org": {source: "Brighton Dome", playlist: "@BrightonDome"},
}

// Adapt maps a webhook payload into event drafts. Free-text dates go
// through the date normalizer; a multi-day range yields one draft per
// day. Items whose date cannot be parsed are dropped.
func (p *ScraperPayload) Adapt() []models.EventDraft {
	// Capture lists are a JSON object; iterate in stable name order.
	names := make([]string, 0, len(p.Task.CapturedLists))
	for name := range p.Task.CapturedLists {
		names = append(names, name)
	}
	sort.Strings(names)

	var drafts []models.EventDraft
	for _, name := range names {
		for _, item := range p.Task.CapturedLists[name] {
			days := dates.Parse(item.Date)
			if len(days) == 0 {
				continue
			}

			title := scrapedTitle(item)
			tag := inferScraperTag(p.Source, item.URL)
			for _, day := range days {
				drafts = append(drafts, models.EventDraft{
					Title:    title,
					Date:     day,
					Link:     item.URL,
					Links:    []models.SourceLink{{Playlist: tag.playlist, URL: item.URL}},
					Source:   tag.source,
					Playlist: tag.playlist,
					Status:   models.StagingStatusApproved,
				})
			}
		}
	}
	return drafts
}

// scrapedTitle joins the present parts of {title, subtitle, category}
// with dashes and appends the venue. All parts empty falls back to a
// placeholder.
func scrapedTitle(item ScrapedItem) string {
	var parts []string
	for _, part := range []string{item.Title, item.Subtitle, item.Category} {
		if s := strings.TrimSpace(part); s != "" {
			parts = append(parts, s)
		}
	}
	title := strings.Join(parts, " - ")

	if venue := strings.TrimSpace(item.Venue); venue != "" {
		if title == "" {
			title = venue
		} else {
			title += " @ " + venue
		}
	}
	if title == "" {
		return "Untitled Event"
	}
	return title
}

// inferScraperTag resolves the source/playlist pair: an explicit known
// source identifier wins, then the link's domain (lowercased, www.
// stripped). Unknown domains synthesize a tag from the first label,
// "example.com" becomes source "example", playlist "@example".
func inferScraperTag(explicit, link string) scraperTag {
	if tag, ok := scraperSourceTags[explicit]; ok {
		return tag
	}

	host := linkDomain(link)
	if tag, ok := scraperDomainTags[host]; ok {
		return tag
	}

	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		label = "unknown"
	}
	return scraperTag{source: label, playlist: "@" + label}
}

func linkDomain(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
