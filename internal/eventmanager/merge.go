package eventmanager

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/locol-hq/locol/internal/ingestion"
	"github.com/locol-hq/locol/internal/metrics"
	"github.com/locol-hq/locol/internal/models"
)

// deleteBatchSize bounds one catalog delete call.
const deleteBatchSize = 10

// Merger resolves duplicate catalog events left behind by multi-source
// publication: records sharing an identity key collapse into the
// first-fetched keeper, which absorbs the playlist references of the rest.
type Merger struct {
	events    ingestion.EventStore
	logger    *slog.Logger
	collector *metrics.Collector
}

// NewMerger creates a merge resolver. The collector may be nil.
func NewMerger(events ingestion.EventStore, logger *slog.Logger, collector *metrics.Collector) *Merger {
	return &Merger{
		events:    events,
		logger:    logger,
		collector: collector,
	}
}

// Sweep runs one catalog-wide merge pass. For each duplicate group the
// keeper is patched with the union of the group's playlist references
// before any duplicate is deleted; if that patch fails the group is left
// intact for the next sweep. Deletes are best-effort: a record that fails
// to delete is counted and retried naturally next time.
func (m *Merger) Sweep(ctx context.Context) models.MergeSummary {
	log := m.logger.With("run_id", uuid.NewString())

	events, err := m.events.ListAll(ctx)
	if err != nil {
		log.Error("catalog read failed", "error", err)
		return models.MergeSummary{Error: err.Error()}
	}

	groups := ingestion.GroupDuplicates(events)
	log.Info("merge sweep", "total", len(events), "groups", len(groups))

	merged, deleted, failed := 0, 0, 0
	duplicates := 0
	for _, group := range groups {
		duplicates += len(group.Duplicates)

		union := unionPlaylists(group)
		if err := m.events.UpdatePlaylists(ctx, group.Keeper.ID, union); err != nil {
			// Without the union on the keeper, deleting the duplicates
			// would lose playlist references. Leave the group alone.
			failed += len(group.Duplicates)
			log.Error("keeper update failed", "keeper", group.Keeper.ID, "error", err)
			continue
		}
		merged++

		ids := make([]string, 0, len(group.Duplicates))
		for _, d := range group.Duplicates {
			ids = append(ids, d.ID)
		}
		for start := 0; start < len(ids); start += deleteBatchSize {
			end := min(start+deleteBatchSize, len(ids))
			batch := ids[start:end]

			n, err := m.events.DeleteBatch(ctx, batch)
			deleted += n
			failed += len(batch) - n
			if err != nil {
				log.Error("duplicate delete failed", "keeper", group.Keeper.ID, "error", err)
			}
		}
	}

	m.collector.AddMerged(deleted)
	log.Info("merge complete", "merged", merged, "deleted", deleted, "failed", failed)
	return models.MergeSummary{
		Success:    failed == 0,
		Total:      len(events),
		Unique:     ingestion.CountUniqueKeys(events),
		Duplicates: duplicates,
		Merged:     merged,
		Deleted:    deleted,
		Failed:     failed,
	}
}

// unionPlaylists unions playlist references across a duplicate group,
// keeper first, preserving first-seen order.
func unionPlaylists(group ingestion.DuplicateGroup) []string {
	seen := make(map[string]struct{})
	var union []string

	add := func(ids []string) {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}

	add(group.Keeper.PlaylistIDs)
	for _, d := range group.Duplicates {
		add(d.PlaylistIDs)
	}
	return union
}
