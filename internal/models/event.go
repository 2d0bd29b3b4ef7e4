package models

// StagingStatus represents the lifecycle state of a staged event.
type StagingStatus string

const (
	StagingStatusApproved  StagingStatus = "Approved"  // Accepted for publication, not yet in the catalog
	StagingStatusPublished StagingStatus = "Published" // Promoted into the catalog
)

// SourceLink records one provenance link for a logical event. Order is
// insertion order; the first-seen link takes precedence and URL duplicates
// are kept as-is for the catalog consumer to reason about.
type SourceLink struct {
	Playlist string `json:"playlist"`
	URL      string `json:"url"`
}

// EventDraft is the canonical intermediate shape every source adapter
// produces before anything is persisted. It exists only in memory.
type EventDraft struct {
	Title    string        `json:"title"`
	Date     string        `json:"date"` // ISO calendar date, YYYY-MM-DD
	Link     string        `json:"link"`
	Links    []SourceLink  `json:"links,omitempty"`
	Source   string        `json:"source"`   // provider name, also the dedup partition
	Playlist string        `json:"playlist"` // playlist handle, e.g. "@Skiddle"
	Status   StagingStatus `json:"status"`
}

// IdentityKey returns the deduplication fingerprint for a draft. Two drafts
// with the same key describe the same real-world event regardless of source.
// The key is deliberately exact-string on title and date; near-miss titles
// are a documented limitation.
func (d EventDraft) IdentityKey() string {
	return IdentityKey(d.Title, d.Date)
}

// IdentityKey derives the fingerprint used across staging and catalog dedup.
func IdentityKey(title, date string) string {
	return title + "|" + date
}

// StagedEvent is an EventDraft persisted in the staging table, awaiting
// publication into the catalog.
type StagedEvent struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Date             string        `json:"date"`
	Link             string        `json:"link"`
	Links            []SourceLink  `json:"links,omitempty"`
	Source           string        `json:"source"`
	Playlist         string        `json:"playlist"`
	Status           StagingStatus `json:"status"`
	PublishedEventID string        `json:"published_event_id,omitempty"`
}

// IdentityKey returns the deduplication fingerprint for a staged event.
func (s StagedEvent) IdentityKey() string {
	return IdentityKey(s.Title, s.Date)
}

// PublishedRef links a staging record to the catalog event created from it.
type PublishedRef struct {
	StagingID string
	EventID   string
}

// CatalogEvent is the published record in the main Events table.
type CatalogEvent struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Date               string   `json:"date"`
	Link               string   `json:"link,omitempty"`
	PlaylistIDs        []string `json:"playlist_ids,omitempty"`
	SubmittedBy        []string `json:"submitted_by,omitempty"`
	VerificationStatus string   `json:"verification_status,omitempty"`
}

// IdentityKey returns the deduplication fingerprint for a catalog event.
func (e CatalogEvent) IdentityKey() string {
	return IdentityKey(e.Title, e.Date)
}

// Playlist is a named curation channel. Read-mostly from the ingestion
// core's perspective; it exists to resolve handles to record identifiers.
type Playlist struct {
	ID                 string   `json:"id"`
	Handle             string   `json:"handle"` // e.g. "@SkiddleBrighton"
	Name               string   `json:"name"`
	OwnerIDs           []string `json:"owner_ids,omitempty"`
	VerificationStatus string   `json:"verification_status,omitempty"`
}
