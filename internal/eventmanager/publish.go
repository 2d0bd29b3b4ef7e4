package eventmanager

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/locol-hq/locol/internal/ingestion"
	"github.com/locol-hq/locol/internal/metrics"
	"github.com/locol-hq/locol/internal/models"
)

// createBatchSize bounds one catalog create call.
const createBatchSize = 10

// Publisher promotes approved staged events into the public catalog.
type Publisher struct {
	staging   ingestion.StagingStore
	events    ingestion.EventStore
	playlists ingestion.PlaylistStore
	logger    *slog.Logger
	collector *metrics.Collector
}

// NewPublisher creates a publisher. The collector may be nil.
func NewPublisher(
	staging ingestion.StagingStore,
	events ingestion.EventStore,
	playlists ingestion.PlaylistStore,
	logger *slog.Logger,
	collector *metrics.Collector,
) *Publisher {
	return &Publisher{
		staging:   staging,
		events:    events,
		playlists: playlists,
		logger:    logger,
		collector: collector,
	}
}

// Publish runs one publication pass: fetch Approved staged records that
// have no published reference, resolve every playlist handle up front,
// create catalog events in bounded batches, and mark the originating
// staged records Published. An unresolvable handle aborts before any
// write; a failed create batch is skipped and its staged records stay
// publishable for the next run.
func (p *Publisher) Publish(ctx context.Context) models.PublishSummary {
	log := p.logger.With("run_id", uuid.NewString())

	staged, err := p.staging.ListPublishable(ctx)
	if err != nil {
		log.Error("staging read failed", "error", err)
		return models.PublishSummary{Error: err.Error()}
	}
	if len(staged) == 0 {
		log.Info("nothing to publish")
		return models.PublishSummary{Success: true}
	}

	handleToID, err := p.playlistHandles(ctx)
	if err != nil {
		log.Error("playlist read failed", "error", err)
		return models.PublishSummary{Total: len(staged), Error: err.Error()}
	}

	if missing := missingHandles(staged, handleToID); len(missing) > 0 {
		err := fmt.Errorf("unknown playlist handles: %s", strings.Join(missing, ", "))
		log.Error("publish aborted", "error", err)
		return models.PublishSummary{Total: len(staged), Error: err.Error()}
	}

	published, failed := 0, 0
	for start := 0; start < len(staged); start += createBatchSize {
		end := min(start+createBatchSize, len(staged))
		batch := staged[start:end]

		created, err := p.events.CreateBatch(ctx, catalogEvents(batch, handleToID))
		if err != nil {
			failed += len(batch)
			p.collector.AddWriteFailures("publish", len(batch))
			log.Error("catalog create failed", "batch_size", len(batch), "error", err)
			continue
		}

		// Created events come back in input order, so index i of the
		// batch pairs with created[i].
		refs := make([]models.PublishedRef, 0, len(created))
		for i, event := range created {
			refs = append(refs, models.PublishedRef{
				StagingID: batch[i].ID,
				EventID:   event.ID,
			})
		}
		// Without the back-references these records stay Approved and
		// would publish again next run, so they count as failed even
		// though the catalog events exist.
		if err := p.staging.MarkPublished(ctx, refs); err != nil {
			failed += len(refs)
			p.collector.AddWriteFailures("publish", len(refs))
			log.Error("mark published failed", "batch_size", len(refs), "error", err)
			continue
		}
		published += len(created)
	}

	p.collector.AddPublished(published)
	log.Info("publish complete", "published", published, "failed", failed)
	return models.PublishSummary{
		Success:   failed == 0,
		Published: published,
		Failed:    failed,
		Total:     len(staged),
	}
}

func (p *Publisher) playlistHandles(ctx context.Context) (map[string]string, error) {
	playlists, err := p.playlists.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	handleToID := make(map[string]string, len(playlists))
	for _, pl := range playlists {
		handleToID[pl.Handle] = pl.ID
	}
	return handleToID, nil
}

// missingHandles returns the distinct unresolvable handles, sorted so the
// abort error is stable.
func missingHandles(staged []models.StagedEvent, handleToID map[string]string) []string {
	seen := make(map[string]struct{})
	var missing []string
	for _, s := range staged {
		if s.Playlist == "" {
			continue
		}
		if _, ok := handleToID[s.Playlist]; ok {
			continue
		}
		if _, dup := seen[s.Playlist]; dup {
			continue
		}
		seen[s.Playlist] = struct{}{}
		missing = append(missing, s.Playlist)
	}
	sort.Strings(missing)
	return missing
}

func catalogEvents(staged []models.StagedEvent, handleToID map[string]string) []models.CatalogEvent {
	events := make([]models.CatalogEvent, 0, len(staged))
	for _, s := range staged {
		var playlistIDs []string
		if id, ok := handleToID[s.Playlist]; ok {
			playlistIDs = []string{id}
		}
		events = append(events, models.CatalogEvent{
			Title:       s.Title,
			Date:        s.Date,
			Link:        s.Link,
			PlaylistIDs: playlistIDs,
		})
	}
	return events
}
