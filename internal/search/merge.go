// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"sort"

	"github.com/pdiddy/deep-research/pkg/types"
)

// MergeStats holds counts from one merge for observability.
type MergeStats struct {
	// Added is the number of incoming candidates appended to the set.
	Added int
	// Duplicates is the number of incoming candidates dropped because their
	// normalized URL was already present.
	Duplicates int
	// Malformed is the number of incoming candidates dropped because their
	// URL was missing or unparseable.
	Malformed int
}

// Merge deduplicates incoming candidates into an existing ranked set and
// returns the new set, sorted by relevance score descending with ties broken
// by insertion order, truncated to cap. The first-seen candidate for a
// normalized URL wins; a later duplicate never overwrites its score or
// backend attribution. Malformed candidates are dropped silently and counted.
//
// Merge is pure and order-insensitive: merging batches incrementally or as
// one flattened list yields the same set (given a cap large enough to hold
// all candidates), so backend completion order cannot affect the outcome.
func Merge(existing []types.SearchResult, incoming []types.SearchResult, cap int) ([]types.SearchResult, MergeStats) {
	var stats MergeStats

	seen := make(map[string]bool, len(existing))
	merged := make([]types.SearchResult, 0, len(existing)+len(incoming))
	for _, r := range existing {
		key, err := NormalizeURL(r.URL)
		if err != nil {
			continue
		}
		seen[key] = true
		merged = append(merged, r)
	}

	for _, r := range incoming {
		key, err := NormalizeURL(r.URL)
		if err != nil {
			stats.Malformed++
			continue
		}
		if seen[key] {
			stats.Duplicates++
			continue
		}
		seen[key] = true
		merged = append(merged, r)
		stats.Added++
	}

	// Existing entries are already in ranked order, so a stable sort keeps
	// the insertion-order tie-break across repeated merges.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RelevanceScore > merged[j].RelevanceScore
	})

	if cap > 0 && len(merged) > cap {
		merged = merged[:cap]
	}
	return merged, stats
}
