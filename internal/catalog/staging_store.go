package catalog

import (
	"context"
	"fmt"

	"github.com/locol-hq/locol/internal/models"
)

// StagingStore is the typed gateway to the Staging table, where adapted
// drafts wait for publication.
type StagingStore struct {
	client *Client
	table  string
}

// NewStagingStore constructs a staging gateway for the given table.
func NewStagingStore(client *Client, table string) *StagingStore {
	return &StagingStore{client: client, table: table}
}

// ListBySource retrieves every staged event in one provider's partition,
// fully paginated.
func (s *StagingStore) ListBySource(ctx context.Context, source string) ([]models.StagedEvent, error) {
	records, err := s.client.ListAll(ctx, s.table, Eq(colSource, source))
	if err != nil {
		return nil, fmt.Errorf("list staging by source %q: %w", source, err)
	}
	return stagedFromRecords(records), nil
}

// ListPublishable retrieves Approved staged events that have not been
// published yet. Records already carrying a published-event reference are
// excluded at the store, which is what makes publication idempotent.
func (s *StagingStore) ListPublishable(ctx context.Context) ([]models.StagedEvent, error) {
	filter := And(Eq(colStatus, string(models.StagingStatusApproved)), Blank(colPublishedEventID))
	records, err := s.client.ListAll(ctx, s.table, filter)
	if err != nil {
		return nil, fmt.Errorf("list publishable staging: %w", err)
	}
	return stagedFromRecords(records), nil
}

// CreateBatch inserts drafts and returns the staged rows with their
// assigned identifiers, in input order.
func (s *StagingStore) CreateBatch(ctx context.Context, drafts []models.EventDraft) ([]models.StagedEvent, error) {
	fieldsets := make([]Fields, 0, len(drafts))
	for _, d := range drafts {
		fieldsets = append(fieldsets, stagingFields(d))
	}

	records, err := s.client.Create(ctx, s.table, fieldsets)
	if err != nil {
		return stagedFromRecords(records), fmt.Errorf("create staging records: %w", err)
	}
	return stagedFromRecords(records), nil
}

// MarkPublished flips staged records to Published and stores the catalog
// identifier each one became.
func (s *StagingStore) MarkPublished(ctx context.Context, refs []models.PublishedRef) error {
	updates := make([]RecordUpdate, 0, len(refs))
	for _, ref := range refs {
		updates = append(updates, RecordUpdate{
			ID: ref.StagingID,
			Fields: Fields{
				colStatus:           string(models.StagingStatusPublished),
				colPublishedEventID: []string{ref.EventID},
			},
		})
	}

	if err := s.client.Update(ctx, s.table, updates); err != nil {
		return fmt.Errorf("mark staging published: %w", err)
	}
	return nil
}

func stagingFields(d models.EventDraft) Fields {
	fields := Fields{
		colEvent:    d.Title,
		colWhen:     d.Date,
		colLink:     d.Link,
		colPlaylist: d.Playlist,
		colSource:   d.Source,
		colStatus:   string(d.Status),
	}
	if raw := linksToJSON(d.Links); raw != "" {
		fields[colLinks] = raw
	}
	return fields
}

func stagedFromRecords(records []Record) []models.StagedEvent {
	staged := make([]models.StagedEvent, 0, len(records))
	for _, r := range records {
		staged = append(staged, models.StagedEvent{
			ID:               r.ID,
			Title:            fieldString(r.Fields, colEvent),
			Date:             fieldString(r.Fields, colWhen),
			Link:             fieldString(r.Fields, colLink),
			Links:            linksFromJSON(fieldString(r.Fields, colLinks)),
			Source:           fieldString(r.Fields, colSource),
			Playlist:         fieldString(r.Fields, colPlaylist),
			Status:           models.StagingStatus(fieldString(r.Fields, colStatus)),
			PublishedEventID: fieldFirst(r.Fields, colPublishedEventID),
		})
	}
	return staged
}
