package ingestion

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/locol-hq/locol/internal/metrics"
	"github.com/locol-hq/locol/internal/models"
)

// writeBatchSize bounds one staging write. The store rejects larger
// batches, and keeping writes chunked means one failed batch does not
// take the rest of the run with it.
const writeBatchSize = 10

// Pipeline orchestrates one sync run: read the source's staging
// partition, fetch from the connector, classify, write the new drafts.
type Pipeline struct {
	staging   StagingStore
	logger    *slog.Logger
	collector *metrics.Collector
}

// NewPipeline creates a sync pipeline. The collector may be nil.
func NewPipeline(staging StagingStore, logger *slog.Logger, collector *metrics.Collector) *Pipeline {
	return &Pipeline{
		staging:   staging,
		logger:    logger,
		collector: collector,
	}
}

// Sync runs one full ingestion pass for a connector. A fetch or
// reference-read failure aborts before any writes; once writes begin,
// each batch is independent and a failed batch only costs its own
// records. Re-running against already-staged data is a no-op because the
// classifier is seeded from the staging partition.
func (p *Pipeline) Sync(ctx context.Context, conn Connector) models.SyncSummary {
	source := conn.Name()
	log := p.logger.With("run_id", uuid.NewString(), "source", source)

	existing, err := p.staging.ListBySource(ctx, source)
	if err != nil {
		log.Error("staging read failed", "error", err)
		return models.SyncSummary{Source: source, Error: err.Error()}
	}
	classifier := NewClassifier(StagedKeys(existing))

	drafts, err := conn.Fetch(ctx)
	if err != nil {
		log.Error("fetch failed", "error", err)
		return models.SyncSummary{Source: source, Error: err.Error()}
	}
	log.Info("fetched drafts", "count", len(drafts), "staged", len(existing))

	var fresh []models.EventDraft
	skipped := 0
	for _, draft := range drafts {
		if classifier.Classify(draft) == ClassDuplicate {
			skipped++
			continue
		}
		fresh = append(fresh, draft)
	}

	synced, failed := 0, 0
	for start := 0; start < len(fresh); start += writeBatchSize {
		end := min(start+writeBatchSize, len(fresh))
		batch := fresh[start:end]

		created, err := p.staging.CreateBatch(ctx, batch)
		synced += len(created)
		if err != nil {
			failed += len(batch) - len(created)
			log.Error("staging write failed", "batch_size", len(batch), "error", err)
			continue
		}
	}

	p.collector.AddSynced(source, synced)
	p.collector.AddSkipped(source, skipped)
	p.collector.AddWriteFailures(source, failed)

	log.Info("sync complete", "synced", synced, "skipped", skipped, "failed", failed)
	return models.SyncSummary{
		Success: failed == 0,
		Source:  source,
		Synced:  synced,
		Skipped: skipped,
		Failed:  failed,
		Total:   len(drafts),
	}
}

// IngestScraped stages webhook drafts. The drafts may span several
// sources, so the classifier is seeded per source partition lazily.
func (p *Pipeline) IngestScraped(ctx context.Context, drafts []models.EventDraft) models.WebhookSummary {
	log := p.logger.With("run_id", uuid.NewString())

	classifiers := make(map[string]*Classifier)
	inserted, skipped, failed := 0, 0, 0

	for _, draft := range drafts {
		classifier, ok := classifiers[draft.Source]
		if !ok {
			existing, err := p.staging.ListBySource(ctx, draft.Source)
			if err != nil {
				log.Error("staging read failed", "source", draft.Source, "error", err)
				return models.WebhookSummary{
					Inserted: inserted,
					Skipped:  skipped,
					Total:    len(drafts),
					Error:    err.Error(),
				}
			}
			classifier = NewClassifier(StagedKeys(existing))
			classifiers[draft.Source] = classifier
		}

		if classifier.Classify(draft) == ClassDuplicate {
			skipped++
			continue
		}

		if _, err := p.staging.CreateBatch(ctx, []models.EventDraft{draft}); err != nil {
			failed++
			p.collector.AddWriteFailures(draft.Source, 1)
			log.Error("staging write failed", "source", draft.Source, "title", draft.Title, "error", err)
			continue
		}
		inserted++
		p.collector.AddSynced(draft.Source, 1)
	}
	p.collector.AddSkipped("webhook", skipped)

	log.Info("webhook ingest complete", "inserted", inserted, "skipped", skipped, "failed", failed)
	return models.WebhookSummary{
		Success:  failed == 0,
		Inserted: inserted,
		Skipped:  skipped,
		Total:    len(drafts),
	}
}
