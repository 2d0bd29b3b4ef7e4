package catalog

import (
	"context"
	"fmt"

	"github.com/locol-hq/locol/internal/models"
)

// EventStore is the typed gateway to the published Events table.
type EventStore struct {
	client *Client
	table  string
}

// NewEventStore constructs an events gateway for the given table.
func NewEventStore(client *Client, table string) *EventStore {
	return &EventStore{client: client, table: table}
}

// ListAll retrieves the entire catalog, fully paginated, in fetch order.
// Fetch order matters: the dedup sweep keeps the first record of each
// duplicate group.
func (s *EventStore) ListAll(ctx context.Context) ([]models.CatalogEvent, error) {
	records, err := s.client.ListAll(ctx, s.table, "")
	if err != nil {
		return nil, fmt.Errorf("list catalog events: %w", err)
	}

	events := make([]models.CatalogEvent, 0, len(records))
	for _, r := range records {
		events = append(events, eventFromRecord(r))
	}
	return events, nil
}

// CreateBatch inserts events and returns them with assigned identifiers,
// preserving input order so callers can map created IDs back positionally.
func (s *EventStore) CreateBatch(ctx context.Context, events []models.CatalogEvent) ([]models.CatalogEvent, error) {
	fieldsets := make([]Fields, 0, len(events))
	for _, e := range events {
		fieldsets = append(fieldsets, eventFields(e))
	}

	records, err := s.client.Create(ctx, s.table, fieldsets)
	created := make([]models.CatalogEvent, 0, len(records))
	for _, r := range records {
		created = append(created, eventFromRecord(r))
	}
	if err != nil {
		return created, fmt.Errorf("create catalog events: %w", err)
	}
	return created, nil
}

// Update replaces an event's user-editable fields.
func (s *EventStore) Update(ctx context.Context, id string, e models.CatalogEvent) error {
	if err := s.client.UpdateRecord(ctx, s.table, id, eventFields(e)); err != nil {
		return fmt.Errorf("update catalog event %s: %w", id, err)
	}
	return nil
}

// UpdatePlaylists patches only the playlist references of an event,
// leaving every other field untouched.
func (s *EventStore) UpdatePlaylists(ctx context.Context, id string, playlistIDs []string) error {
	fields := Fields{colPlaylist: playlistIDs}
	if err := s.client.UpdateRecord(ctx, s.table, id, fields); err != nil {
		return fmt.Errorf("update playlists for event %s: %w", id, err)
	}
	return nil
}

// Delete removes a single event.
func (s *EventStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, s.table, id); err != nil {
		return fmt.Errorf("delete catalog event %s: %w", id, err)
	}
	return nil
}

// DeleteBatch removes events best-effort: a batch call that fails falls
// back to per-record deletes so one bad record does not block the rest.
// Returns how many records were actually removed.
func (s *EventStore) DeleteBatch(ctx context.Context, ids []string) (int, error) {
	deleted := 0
	var lastErr error

	for start := 0; start < len(ids); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(ids))
		chunk := ids[start:end]

		if err := s.client.DeleteBatch(ctx, s.table, chunk); err == nil {
			deleted += len(chunk)
			continue
		}

		for _, id := range chunk {
			if err := s.client.Delete(ctx, s.table, id); err != nil {
				lastErr = err
				continue
			}
			deleted++
		}
	}

	if lastErr != nil {
		return deleted, fmt.Errorf("delete catalog events: %w", lastErr)
	}
	return deleted, nil
}

func eventFields(e models.CatalogEvent) Fields {
	fields := Fields{
		colEvent: e.Title,
		colWhen:  e.Date,
		colLink:  e.Link,
	}
	if len(e.PlaylistIDs) > 0 {
		fields[colPlaylist] = e.PlaylistIDs
	}
	if len(e.SubmittedBy) > 0 {
		fields[colSubmittedBy] = e.SubmittedBy
	}
	return fields
}

func eventFromRecord(r Record) models.CatalogEvent {
	return models.CatalogEvent{
		ID:                 r.ID,
		Title:              fieldString(r.Fields, colEvent),
		Date:               fieldString(r.Fields, colWhen),
		Link:               fieldString(r.Fields, colLink),
		PlaylistIDs:        fieldStrings(r.Fields, colPlaylist),
		SubmittedBy:        fieldStrings(r.Fields, colSubmittedBy),
		VerificationStatus: fieldFirst(r.Fields, colVerification),
	}
}
