package ingestion

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/locol-hq/locol/internal/models"
)

// StagingStore defines the staging-table operations the pipeline needs.
type StagingStore interface {
	// ListBySource retrieves one provider's staging partition, fully paginated.
	ListBySource(ctx context.Context, source string) ([]models.StagedEvent, error)

	// ListPublishable retrieves Approved records with no published-event reference.
	ListPublishable(ctx context.Context) ([]models.StagedEvent, error)

	// CreateBatch inserts drafts, returning staged rows with IDs in input order.
	CreateBatch(ctx context.Context, drafts []models.EventDraft) ([]models.StagedEvent, error)

	// MarkPublished flips records to Published with their catalog back-references.
	MarkPublished(ctx context.Context, refs []models.PublishedRef) error
}

// EventStore defines the catalog-table operations used by publication,
// merging and the management endpoints.
type EventStore interface {
	// ListAll retrieves the whole catalog in stable fetch order.
	ListAll(ctx context.Context) ([]models.CatalogEvent, error)

	// CreateBatch inserts events, returning them with IDs in input order.
	CreateBatch(ctx context.Context, events []models.CatalogEvent) ([]models.CatalogEvent, error)

	// Update replaces an event's user-editable fields.
	Update(ctx context.Context, id string, e models.CatalogEvent) error

	// UpdatePlaylists patches only the playlist references of an event.
	UpdatePlaylists(ctx context.Context, id string, playlistIDs []string) error

	// Delete removes a single event.
	Delete(ctx context.Context, id string) error

	// DeleteBatch removes events best-effort and reports how many succeeded.
	DeleteBatch(ctx context.Context, ids []string) (int, error)
}

// PlaylistStore resolves playlist handles to record identifiers.
type PlaylistStore interface {
	ListAll(ctx context.Context) ([]models.Playlist, error)
}

// MemoryStagingStore implements an in-memory staging store for tests.
// Failure injection is per call index so batch-failure tolerance can be
// exercised without a live store.
type MemoryStagingStore struct {
	Records []models.StagedEvent

	CreateCalls      int
	FailCreateCalls  map[int]bool // 1-based call indexes that should fail
	MarkPublishedErr error
}

// NewMemoryStagingStore creates an empty in-memory staging store.
func NewMemoryStagingStore() *MemoryStagingStore {
	return &MemoryStagingStore{}
}

// ListBySource filters records by their source partition.
func (s *MemoryStagingStore) ListBySource(ctx context.Context, source string) ([]models.StagedEvent, error) {
	var out []models.StagedEvent
	for _, r := range s.Records {
		if r.Source == source {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListPublishable returns Approved records without a published reference.
func (s *MemoryStagingStore) ListPublishable(ctx context.Context) ([]models.StagedEvent, error) {
	var out []models.StagedEvent
	for _, r := range s.Records {
		if r.Status == models.StagingStatusApproved && r.PublishedEventID == "" {
			out = append(out, r)
		}
	}
	return out, nil
}

// CreateBatch appends drafts as staged records with generated IDs.
func (s *MemoryStagingStore) CreateBatch(ctx context.Context, drafts []models.EventDraft) ([]models.StagedEvent, error) {
	s.CreateCalls++
	if s.FailCreateCalls[s.CreateCalls] {
		return nil, fmt.Errorf("injected create failure on call %d", s.CreateCalls)
	}

	created := make([]models.StagedEvent, 0, len(drafts))
	for _, d := range drafts {
		staged := models.StagedEvent{
			ID:       uuid.NewString(),
			Title:    d.Title,
			Date:     d.Date,
			Link:     d.Link,
			Links:    d.Links,
			Source:   d.Source,
			Playlist: d.Playlist,
			Status:   d.Status,
		}
		s.Records = append(s.Records, staged)
		created = append(created, staged)
	}
	return created, nil
}

// MarkPublished updates matching records in place.
func (s *MemoryStagingStore) MarkPublished(ctx context.Context, refs []models.PublishedRef) error {
	if s.MarkPublishedErr != nil {
		return s.MarkPublishedErr
	}

	for _, ref := range refs {
		for i := range s.Records {
			if s.Records[i].ID == ref.StagingID {
				s.Records[i].Status = models.StagingStatusPublished
				s.Records[i].PublishedEventID = ref.EventID
			}
		}
	}
	return nil
}

// MemoryEventStore implements an in-memory catalog store for tests.
type MemoryEventStore struct {
	Events []models.CatalogEvent

	CreateErr  error
	UpdateErrs map[string]error // per-record update failures
	DeleteErrs map[string]error // per-record delete failures
}

// NewMemoryEventStore creates an empty in-memory event store.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{}
}

// ListAll returns events in insertion order.
func (s *MemoryEventStore) ListAll(ctx context.Context) ([]models.CatalogEvent, error) {
	out := make([]models.CatalogEvent, len(s.Events))
	copy(out, s.Events)
	return out, nil
}

// CreateBatch appends events with generated IDs.
func (s *MemoryEventStore) CreateBatch(ctx context.Context, events []models.CatalogEvent) ([]models.CatalogEvent, error) {
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}

	created := make([]models.CatalogEvent, 0, len(events))
	for _, e := range events {
		e.ID = uuid.NewString()
		s.Events = append(s.Events, e)
		created = append(created, e)
	}
	return created, nil
}

// Update replaces an event's editable fields.
func (s *MemoryEventStore) Update(ctx context.Context, id string, e models.CatalogEvent) error {
	if err := s.UpdateErrs[id]; err != nil {
		return err
	}
	for i := range s.Events {
		if s.Events[i].ID == id {
			s.Events[i].Title = e.Title
			s.Events[i].Date = e.Date
			s.Events[i].Link = e.Link
			s.Events[i].PlaylistIDs = e.PlaylistIDs
			return nil
		}
	}
	return fmt.Errorf("event %s not found", id)
}

// UpdatePlaylists patches only the playlist references.
func (s *MemoryEventStore) UpdatePlaylists(ctx context.Context, id string, playlistIDs []string) error {
	if err := s.UpdateErrs[id]; err != nil {
		return err
	}
	for i := range s.Events {
		if s.Events[i].ID == id {
			s.Events[i].PlaylistIDs = playlistIDs
			return nil
		}
	}
	return fmt.Errorf("event %s not found", id)
}

// Delete removes a single event.
func (s *MemoryEventStore) Delete(ctx context.Context, id string) error {
	if err := s.DeleteErrs[id]; err != nil {
		return err
	}
	for i := range s.Events {
		if s.Events[i].ID == id {
			s.Events = append(s.Events[:i], s.Events[i+1:]...)
			return nil
		}
	}
	return nil
}

// DeleteBatch removes events best-effort, skipping injected failures.
func (s *MemoryEventStore) DeleteBatch(ctx context.Context, ids []string) (int, error) {
	deleted := 0
	var lastErr error
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			lastErr = err
			continue
		}
		deleted++
	}
	return deleted, lastErr
}

// MemoryPlaylistStore implements an in-memory playlist store for tests.
type MemoryPlaylistStore struct {
	Playlists []models.Playlist
}

// ListAll returns the configured playlists.
func (s *MemoryPlaylistStore) ListAll(ctx context.Context) ([]models.Playlist, error) {
	out := make([]models.Playlist, len(s.Playlists))
	copy(out, s.Playlists)
	return out, nil
}
