package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partkade/partsearch/internal/catalog"
	"github.com/partkade/partsearch/pkg/types"
)

func testSnapshot() *catalog.Snapshot {
	parts := []*types.Part{
		{ID: 1, Name: "لنت ترمز جلو", OEMCode: "C1", Status: types.PartStatusActive, Category: "Brake", VehicleMake: "Chery"},
		{ID: 2, Name: "لنت ترمز عقب", OEMCode: "C2", Status: types.PartStatusActive, Category: "Brake", VehicleMake: "JAC"},
		{ID: 3, Name: "فیلتر روغن", OEMCode: "C3", Status: types.PartStatusActive, Category: "Engine", VehicleMake: "Chery"},
	}
	return catalog.BuildSnapshot(1, parts, nil)
}

func TestRankWeighsAndOrders(t *testing.T) {
	r := New(DefaultWeights(), 0)
	snap := testSnapshot()

	candidates := []types.MatchCandidate{
		{PartID: 2, Type: types.MatchFuzzy, RawScore: 0.9, FieldMatched: "name"},
		{PartID: 1, Type: types.MatchExact, RawScore: 1.0, FieldMatched: "oem_code"},
		{PartID: 3, Type: types.MatchSynonym, RawScore: 0.8, FieldMatched: "alias"},
	}
	results := r.Rank(snap, candidates, nil, 0)
	require.Len(t, results, 3)

	assert.Equal(t, int64(1), results[0].Part.ID)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, 1, results[0].Rank)

	assert.Equal(t, int64(3), results[1].Part.ID)
	assert.InDelta(t, 0.72, results[1].Score, 1e-9)
	assert.Equal(t, 2, results[1].Rank)

	assert.Equal(t, int64(2), results[2].Part.ID)
	assert.InDelta(t, 0.54, results[2].Score, 1e-9)
	assert.Equal(t, 3, results[2].Rank)
}

func TestRankDeduplicatesAcrossStrategies(t *testing.T) {
	r := New(DefaultWeights(), 0)
	snap := testSnapshot()

	candidates := []types.MatchCandidate{
		{PartID: 1, Type: types.MatchFuzzy, RawScore: 0.95, FieldMatched: "name"},
		{PartID: 1, Type: types.MatchExact, RawScore: 1.0, FieldMatched: "oem_code"},
	}
	results := r.Rank(snap, candidates, nil, 0)
	require.Len(t, results, 1)
	assert.Equal(t, types.MatchExact, results[0].Type)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestRankDropsBelowThreshold(t *testing.T) {
	r := New(DefaultWeights(), 0)
	snap := testSnapshot()

	// 0.45 raw fuzzy * 0.6 weight = 0.27 < 0.3
	candidates := []types.MatchCandidate{
		{PartID: 1, Type: types.MatchFuzzy, RawScore: 0.45, FieldMatched: "name"},
	}
	assert.Empty(t, r.Rank(snap, candidates, nil, 0))
}

func TestRankAppliesFilters(t *testing.T) {
	r := New(DefaultWeights(), 0)
	snap := testSnapshot()

	candidates := []types.MatchCandidate{
		{PartID: 1, Type: types.MatchExact, RawScore: 1.0, FieldMatched: "oem_code"},
		{PartID: 2, Type: types.MatchExact, RawScore: 1.0, FieldMatched: "oem_code"},
	}
	filters := catalog.NormalizeFilters(&types.Filters{VehicleMake: "Chery"})
	results := r.Rank(snap, candidates, filters, 0)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].Part.ID)
}

func TestRankTieBreaksDeterministically(t *testing.T) {
	r := New(Weights{Exact: 1.0, Synonym: 1.0, Semantic: 1.0, Fuzzy: 1.0}, 0)
	snap := testSnapshot()

	candidates := []types.MatchCandidate{
		{PartID: 2, Type: types.MatchSynonym, RawScore: 0.8, FieldMatched: "alias"},
		{PartID: 1, Type: types.MatchSynonym, RawScore: 0.8, FieldMatched: "alias"},
		{PartID: 3, Type: types.MatchExact, RawScore: 0.8, FieldMatched: "oem_code"},
	}
	results := r.Rank(snap, candidates, nil, 0)
	require.Len(t, results, 3)

	// Same score: exact priority wins, then lower part ID
	assert.Equal(t, int64(3), results[0].Part.ID)
	assert.Equal(t, int64(1), results[1].Part.ID)
	assert.Equal(t, int64(2), results[2].Part.ID)
}

func TestRankLimit(t *testing.T) {
	r := New(DefaultWeights(), 0)
	snap := testSnapshot()

	candidates := []types.MatchCandidate{
		{PartID: 1, Type: types.MatchExact, RawScore: 1.0, FieldMatched: "oem_code"},
		{PartID: 2, Type: types.MatchExact, RawScore: 0.9, FieldMatched: "oem_code"},
		{PartID: 3, Type: types.MatchExact, RawScore: 0.8, FieldMatched: "oem_code"},
	}
	results := r.Rank(snap, candidates, nil, 2)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, 2, results[1].Rank)
}

func TestRankSkipsUnknownParts(t *testing.T) {
	r := New(DefaultWeights(), 0)
	snap := testSnapshot()

	candidates := []types.MatchCandidate{
		{PartID: 404, Type: types.MatchExact, RawScore: 1.0, FieldMatched: "oem_code"},
	}
	assert.Empty(t, r.Rank(snap, candidates, nil, 0))
}
