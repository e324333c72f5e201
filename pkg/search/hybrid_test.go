package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vockit/lattice/pkg/types"
)

func keys(results []types.SearchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.DocumentID+"/"+r.ChunkID)
	}
	return out
}

func TestFusePositionRanked(t *testing.T) {
	vector := []types.SearchResult{result("a", "0"), result("b", "0"), result("c", "0")}
	keyword := []types.SearchResult{result("b", "0"), result("d", "0")}

	fused := FusePositionRanked(vector, keyword, 0.7, 10)
	require.Len(t, fused, 4)

	// Position scores: a = 1×0.7, b = (2/3)×0.7 + 1×0.3, c = (1/3)×0.7,
	// d = (1/2)×0.3. The double hit b lands on top.
	assert.Equal(t, []string{"b/0", "a/0", "c/0", "d/0"}, keys(fused))
	assert.InDelta(t, (2.0/3.0)*0.7+0.3, fused[0].Score, 1e-9)
	assert.InDelta(t, 0.7, fused[1].Score, 1e-9)
}

func TestFuseDoubleHitOutranksSingles(t *testing.T) {
	// A result in both lists always beats the same result in either
	// list alone, whatever the weight.
	for _, weight := range []float64{0.1, 0.5, 0.9} {
		vector := []types.SearchResult{result("solo-v", "0"), result("both", "0")}
		keyword := []types.SearchResult{result("both", "0"), result("solo-k", "0")}

		fused := FusePositionRanked(vector, keyword, weight, 10)
		require.NotEmpty(t, fused)
		assert.Equal(t, "both", fused[0].DocumentID, "weight %v", weight)
	}
}

func TestFuseWeightOneIsVectorOrder(t *testing.T) {
	vector := []types.SearchResult{result("a", "0"), result("b", "0"), result("c", "0")}
	keyword := []types.SearchResult{result("z", "0"), result("b", "0")}

	fused := FusePositionRanked(vector, keyword, 1, 10)
	assert.Equal(t, []string{"a/0", "b/0", "c/0"}, keys(fused))
}

func TestFuseWeightZeroIsKeywordOrder(t *testing.T) {
	vector := []types.SearchResult{result("a", "0"), result("b", "0")}
	keyword := []types.SearchResult{result("z", "0"), result("y", "0"), result("x", "0")}

	fused := FusePositionRanked(vector, keyword, 0, 10)
	assert.Equal(t, []string{"z/0", "y/0", "x/0"}, keys(fused))
}

func TestFuseEmptyLists(t *testing.T) {
	assert.Empty(t, FusePositionRanked(nil, nil, 0.7, 10))

	vector := []types.SearchResult{result("a", "0")}
	fused := FusePositionRanked(vector, nil, 0.7, 10)
	require.Len(t, fused, 1)
	assert.Equal(t, "a", fused[0].DocumentID)
}

func TestFuseTruncatesToLimit(t *testing.T) {
	vector := []types.SearchResult{result("a", "0"), result("b", "0"), result("c", "0")}

	fused := FusePositionRanked(vector, nil, 1, 2)
	assert.Len(t, fused, 2)

	assert.Empty(t, FusePositionRanked(vector, nil, 1, 0))
}

func TestFuseTieBreakIsDeterministic(t *testing.T) {
	// Two results at the same position in equal-weight lists tie on
	// score; the key order breaks the tie the same way every time.
	vector := []types.SearchResult{result("b", "0")}
	keyword := []types.SearchResult{result("a", "0")}

	for i := 0; i < 10; i++ {
		fused := FusePositionRanked(vector, keyword, 0.5, 10)
		assert.Equal(t, []string{"a/0", "b/0"}, keys(fused))
	}
}

func TestFuseDistinguishesChunksOfSameDocument(t *testing.T) {
	vector := []types.SearchResult{result("a", "0"), result("a", "1")}
	keyword := []types.SearchResult{result("a", "1")}

	fused := FusePositionRanked(vector, keyword, 0.5, 10)
	require.Len(t, fused, 2)
	// Only chunk 1 is a double hit.
	assert.Equal(t, "a/1", keys(fused)[0])
}
