package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/vockit/lattice/pkg/types"
	"github.com/vockit/lattice/pkg/utils"
)

// HybridSearch runs vector and keyword search concurrently, each
// over-fetching 2×limit candidates, and fuses the two ranked lists by
// position score. vectorWeight 1 degenerates to vector-only ranking,
// 0 to keyword-only. The fan-out is issued even when limit is 0; the
// zero-result contract still holds.
func (s *Searcher) HybridSearch(ctx context.Context, tenantID, query string, limit int, vectorWeight float64, filter types.SearchFilter) ([]types.SearchResult, error) {
	if tenantID == "" {
		return nil, types.ErrMissingTenant
	}
	if vectorWeight < 0 || vectorWeight > 1 {
		return nil, fmt.Errorf("vector weight must be in [0,1], got %v", vectorWeight)
	}

	fetch := 2 * limit
	lists, errs := utils.ExecuteWithResults(ctx, 2,
		func() ([]types.SearchResult, error) {
			return s.VectorSearch(ctx, tenantID, query, fetch, filter)
		},
		func() ([]types.SearchResult, error) {
			return s.KeywordSearch(ctx, tenantID, query, fetch, filter)
		},
	)
	if err := utils.FirstError(errs); err != nil {
		return nil, err
	}

	return FusePositionRanked(lists[0], lists[1], vectorWeight, limit), nil
}

// FusePositionRanked merges two position-ranked lists into one list
// ordered by combined position score. A result at position p in a
// list of length n contributes (1 − p/n) × weight; results present in
// both lists sum their contributions, so a double hit always outranks
// either of its single appearances.
//
// This is rank fusion, not score normalization: the two signals'
// native scales (cosine distance vs. boolean containment) are
// deliberately ignored. Changing this changes observable rankings.
func FusePositionRanked(vector, keyword []types.SearchResult, vectorWeight float64, limit int) []types.SearchResult {
	type fused struct {
		result types.SearchResult
		score  float64
	}
	merged := make(map[string]*fused)

	accumulate := func(list []types.SearchResult, weight float64) {
		if weight == 0 {
			// A zero-weight signal contributes nothing; keeping its
			// rows would dilute the degenerate single-signal orderings.
			return
		}
		n := len(list)
		for p, result := range list {
			score := (1 - float64(p)/float64(n)) * weight
			if entry, ok := merged[result.Key()]; ok {
				entry.score += score
				continue
			}
			merged[result.Key()] = &fused{result: result, score: score}
		}
	}
	accumulate(vector, vectorWeight)
	accumulate(keyword, 1-vectorWeight)

	ranked := make([]fused, 0, len(merged))
	for _, entry := range merged {
		entry.result.Score = entry.score
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].result.Key() < ranked[j].result.Key()
	})

	if limit < 0 {
		limit = 0
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	results := make([]types.SearchResult, 0, len(ranked))
	for _, entry := range ranked {
		results = append(results, entry.result)
	}
	return results
}
