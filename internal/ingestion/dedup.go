package ingestion

import (
	"github.com/locol-hq/locol/internal/models"
)

// Classification is the dedup verdict for one candidate draft.
type Classification int

const (
	// ClassNew marks a draft whose identity key has not been seen in the
	// reference set or earlier in the same batch.
	ClassNew Classification = iota

	// ClassDuplicate marks a draft that would describe an already-known event.
	ClassDuplicate
)

// Classifier holds the working set of identity keys for one run. It is an
// explicit value threaded through the batch, not ambient state: a fresh
// classifier per run keeps the pipeline reentrant and testable.
type Classifier struct {
	seen map[string]struct{}
}

// NewClassifier seeds a classifier with the reference set's identity keys.
func NewClassifier(existing []string) *Classifier {
	seen := make(map[string]struct{}, len(existing))
	for _, key := range existing {
		seen[key] = struct{}{}
	}
	return &Classifier{seen: seen}
}

// Classify returns the verdict for a draft. A New draft's key is absorbed
// immediately, so two candidates sharing a key within one batch collapse
// to a single insertion: first occurrence wins, later ones are Duplicate.
func (c *Classifier) Classify(draft models.EventDraft) Classification {
	key := draft.IdentityKey()
	if _, ok := c.seen[key]; ok {
		return ClassDuplicate
	}
	c.seen[key] = struct{}{}
	return ClassNew
}

// StagedKeys extracts the identity keys of a staging reference set.
func StagedKeys(staged []models.StagedEvent) []string {
	keys := make([]string, 0, len(staged))
	for _, s := range staged {
		keys = append(keys, s.IdentityKey())
	}
	return keys
}

// DuplicateGroup is a set of catalog records sharing one identity key.
// The keeper is the first record encountered in catalog fetch order; that
// tie-break is deliberate and simple, not a quality heuristic.
type DuplicateGroup struct {
	Keeper     models.CatalogEvent
	Duplicates []models.CatalogEvent
}

// GroupDuplicates groups catalog records by identity key, preserving fetch
// order, and returns only the groups with more than one member. Such
// groups predate consistent dedup and are handed to the merge resolver.
func GroupDuplicates(events []models.CatalogEvent) []DuplicateGroup {
	index := make(map[string]int)
	var groups []DuplicateGroup

	for _, event := range events {
		key := event.IdentityKey()
		if i, ok := index[key]; ok {
			groups[i].Duplicates = append(groups[i].Duplicates, event)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, DuplicateGroup{Keeper: event})
	}

	merged := make([]DuplicateGroup, 0)
	for _, g := range groups {
		if len(g.Duplicates) > 0 {
			merged = append(merged, g)
		}
	}
	return merged
}

// CountUniqueKeys returns the number of distinct identity keys in a
// catalog snapshot.
func CountUniqueKeys(events []models.CatalogEvent) int {
	seen := make(map[string]struct{}, len(events))
	for _, e := range events {
		seen[e.IdentityKey()] = struct{}{}
	}
	return len(seen)
}
