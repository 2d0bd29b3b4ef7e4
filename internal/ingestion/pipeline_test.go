package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/locol-hq/locol/internal/models"
)

type stubConnector struct {
	name   string
	drafts []models.EventDraft
	err    error
}

func (c *stubConnector) Name() string { return c.name }

func (c *stubConnector) Fetch(ctx context.Context) ([]models.EventDraft, error) {
	return c.drafts, c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeDrafts(source string, n int) []models.EventDraft {
	drafts := make([]models.EventDraft, 0, n)
	for i := 0; i < n; i++ {
		drafts = append(drafts, models.EventDraft{
			Title:  fmt.Sprintf("Event %02d", i),
			Date:   "2025-10-01",
			Source: source,
			Status: models.StagingStatusApproved,
		})
	}
	return drafts
}

func TestSyncStagesNewDraftsOnly(t *testing.T) {
	store := NewMemoryStagingStore()
	store.Records = []models.StagedEvent{
		{ID: "rec1", Title: "Event 00", Date: "2025-10-01", Source: "Skiddle"},
	}

	conn := &stubConnector{name: "Skiddle", drafts: makeDrafts("Skiddle", 3)}
	pipeline := NewPipeline(store, discardLogger(), nil)

	summary := pipeline.Sync(context.Background(), conn)
	if !summary.Success {
		t.Fatalf("summary not successful: %+v", summary)
	}
	if summary.Synced != 2 || summary.Skipped != 1 || summary.Total != 3 {
		t.Errorf("summary = %+v, want synced=2 skipped=1 total=3", summary)
	}
	if len(store.Records) != 3 {
		t.Errorf("staging has %d records, want 3", len(store.Records))
	}
}

func TestSyncSecondRunIsNoOp(t *testing.T) {
	store := NewMemoryStagingStore()
	conn := &stubConnector{name: "Skiddle", drafts: makeDrafts("Skiddle", 5)}
	pipeline := NewPipeline(store, discardLogger(), nil)

	first := pipeline.Sync(context.Background(), conn)
	if first.Synced != 5 {
		t.Fatalf("first run synced %d, want 5", first.Synced)
	}

	second := pipeline.Sync(context.Background(), conn)
	if second.Synced != 0 || second.Skipped != 5 {
		t.Errorf("second run = %+v, want synced=0 skipped=5", second)
	}
	if len(store.Records) != 5 {
		t.Errorf("staging has %d records after rerun, want 5", len(store.Records))
	}
}

func TestSyncCollapsesDuplicatesWithinBatch(t *testing.T) {
	drafts := makeDrafts("Skiddle", 2)
	drafts = append(drafts, drafts[0]) // same identity key as the first

	store := NewMemoryStagingStore()
	pipeline := NewPipeline(store, discardLogger(), nil)

	summary := pipeline.Sync(context.Background(), &stubConnector{name: "Skiddle", drafts: drafts})
	if summary.Synced != 2 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want synced=2 skipped=1", summary)
	}
}

func TestSyncFetchFailureWritesNothing(t *testing.T) {
	store := NewMemoryStagingStore()
	conn := &stubConnector{name: "Skiddle", err: fmt.Errorf("upstream 503")}
	pipeline := NewPipeline(store, discardLogger(), nil)

	summary := pipeline.Sync(context.Background(), conn)
	if summary.Success {
		t.Error("summary reports success after fetch failure")
	}
	if summary.Error == "" {
		t.Error("summary.Error is empty")
	}
	if store.CreateCalls != 0 {
		t.Errorf("store saw %d create calls, want 0", store.CreateCalls)
	}
}

func TestSyncChunksWritesAndToleratesBatchFailure(t *testing.T) {
	store := NewMemoryStagingStore()
	store.FailCreateCalls = map[int]bool{2: true}

	conn := &stubConnector{name: "Skiddle", drafts: makeDrafts("Skiddle", 23)}
	drafts := conn.drafts
	for i := range drafts {
		drafts[i].Date = fmt.Sprintf("2025-10-%02d", i+1)
	}

	pipeline := NewPipeline(store, discardLogger(), nil)
	summary := pipeline.Sync(context.Background(), conn)

	if store.CreateCalls != 3 {
		t.Fatalf("store saw %d create calls, want 3 batches for 23 drafts", store.CreateCalls)
	}
	if summary.Synced != 13 || summary.Failed != 10 {
		t.Errorf("summary = %+v, want synced=13 failed=10", summary)
	}
	if summary.Success {
		t.Error("summary reports success despite a failed batch")
	}
	if len(store.Records) != 13 {
		t.Errorf("staging has %d records, want 13", len(store.Records))
	}
}

func TestIngestScrapedDedupsPerSource(t *testing.T) {
	store := NewMemoryStagingStore()
	store.Records = []models.StagedEvent{
		{ID: "rec1", Title: "Dome Gig", Date: "2025-10-01", Source: "Brighton Dome"},
	}

	drafts := []models.EventDraft{
		{Title: "Dome Gig", Date: "2025-10-01", Source: "Brighton Dome"},
		{Title: "Dome Gig", Date: "2025-10-02", Source: "Brighton Dome"},
		{Title: "Dome Gig", Date: "2025-10-01", Source: "concorde"},
	}

	pipeline := NewPipeline(store, discardLogger(), nil)
	summary := pipeline.IngestScraped(context.Background(), drafts)

	if !summary.Success {
		t.Fatalf("summary not successful: %+v", summary)
	}
	if summary.Inserted != 2 || summary.Skipped != 1 || summary.Total != 3 {
		t.Errorf("summary = %+v, want inserted=2 skipped=1 total=3", summary)
	}
}

// unreadableSourceStore fails partition reads for selected sources.
type unreadableSourceStore struct {
	*MemoryStagingStore
	failSources map[string]bool
}

func (s *unreadableSourceStore) ListBySource(ctx context.Context, source string) ([]models.StagedEvent, error) {
	if s.failSources[source] {
		return nil, fmt.Errorf("injected read failure for %s", source)
	}
	return s.MemoryStagingStore.ListBySource(ctx, source)
}

func TestIngestScrapedReadFailureKeepsRunningCounts(t *testing.T) {
	store := &unreadableSourceStore{
		MemoryStagingStore: NewMemoryStagingStore(),
		failSources:        map[string]bool{"concorde": true},
	}
	store.Records = []models.StagedEvent{
		{ID: "rec1", Title: "Dome Gig", Date: "2025-10-01", Source: "Brighton Dome"},
	}

	drafts := []models.EventDraft{
		{Title: "Dome Gig", Date: "2025-10-01", Source: "Brighton Dome"},
		{Title: "Dome Gig", Date: "2025-10-02", Source: "Brighton Dome"},
		{Title: "Dome Gig", Date: "2025-10-01", Source: "concorde"},
	}

	pipeline := NewPipeline(store, discardLogger(), nil)
	summary := pipeline.IngestScraped(context.Background(), drafts)

	if summary.Success {
		t.Error("summary reports success after a partition read failure")
	}
	if summary.Error == "" {
		t.Error("summary.Error is empty")
	}
	if summary.Inserted != 1 || summary.Skipped != 1 || summary.Total != 3 {
		t.Errorf("summary = %+v, want inserted=1 skipped=1 total=3", summary)
	}
}

func TestIngestScrapedContinuesPastWriteFailure(t *testing.T) {
	store := NewMemoryStagingStore()
	store.FailCreateCalls = map[int]bool{1: true}

	drafts := []models.EventDraft{
		{Title: "A", Date: "2025-10-01", Source: "example"},
		{Title: "B", Date: "2025-10-01", Source: "example"},
	}

	pipeline := NewPipeline(store, discardLogger(), nil)
	summary := pipeline.IngestScraped(context.Background(), drafts)

	if summary.Success {
		t.Error("summary reports success despite a failed write")
	}
	if summary.Inserted != 1 {
		t.Errorf("inserted = %d, want 1 (second record continues)", summary.Inserted)
	}
}
