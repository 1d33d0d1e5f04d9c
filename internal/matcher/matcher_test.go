package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partkade/partsearch/internal/catalog"
	"github.com/partkade/partsearch/internal/normalizer"
	"github.com/partkade/partsearch/pkg/types"
)

func testSnapshot() *catalog.Snapshot {
	parts := []*types.Part{
		{ID: 1, Name: "لنت ترمز جلو تیگو ۸", OEMCode: "T11-3501080", Status: types.PartStatusActive},
		{ID: 2, Name: "فیلتر روغن آریزو ۵", OEMCode: "481H-1012010", Status: types.PartStatusActive},
		{ID: 3, Name: "دیسک ترمز جلو", OEMCode: "T11-3501075", Status: types.PartStatusActive},
	}
	synonyms := []*types.Synonym{
		{ID: 1, PartID: 1, Alias: "لنت جلو", Weight: 0.9},
		{ID: 2, PartID: 2, Alias: "فیلتر اویل", Weight: 1.0},
		{ID: 3, PartID: 3, Alias: "صفحه دیسک چرخ جلو", Weight: 0.8},
	}
	return catalog.BuildSnapshot(1, parts, synonyms)
}

func TestExactFullQueryCode(t *testing.T) {
	m := NewExact(testSnapshot())

	cands, warnings := m.Match(normalizer.Normalize("T11-3501080"))
	require.Len(t, cands, 1)
	assert.Empty(t, warnings)
	assert.Equal(t, int64(1), cands[0].PartID)
	assert.Equal(t, types.MatchExact, cands[0].Type)
	assert.Equal(t, 1.0, cands[0].RawScore)
	assert.Equal(t, "oem_code", cands[0].FieldMatched)
}

func TestExactCodeTokenInsideQuery(t *testing.T) {
	m := NewExact(testSnapshot())

	cands, _ := m.Match(normalizer.Normalize("لنت جلو T11-3501080 اصلی"))
	require.Len(t, cands, 1)
	assert.Equal(t, int64(1), cands[0].PartID)
}

func TestExactPersianDigitsInCode(t *testing.T) {
	m := NewExact(testSnapshot())

	cands, _ := m.Match(normalizer.Normalize("T۱۱-۳۵۰۱۰۸۰"))
	require.Len(t, cands, 1)
	assert.Equal(t, int64(1), cands[0].PartID)
}

func TestExactNoMatchForPlainText(t *testing.T) {
	m := NewExact(testSnapshot())

	cands, warnings := m.Match(normalizer.Normalize("لنت ترمز جلو"))
	assert.Empty(t, cands)
	assert.Empty(t, warnings)
}

func TestExactShortAndDigitlessCodes(t *testing.T) {
	// Codes too short or digit-free for the token heuristic must still hit
	// through the whole-query lookup
	parts := []*types.Part{
		{ID: 1, Name: "واشر سر سیلندر", OEMCode: "1234", Status: types.PartStatusActive},
		{ID: 2, Name: "بلبرینگ چرخ جلو", OEMCode: "ABCDE", Status: types.PartStatusActive},
	}
	m := NewExact(catalog.BuildSnapshot(1, parts, nil))

	cands, warnings := m.Match(normalizer.Normalize("1234"))
	require.Len(t, cands, 1)
	assert.Empty(t, warnings)
	assert.Equal(t, int64(1), cands[0].PartID)
	assert.Equal(t, 1.0, cands[0].RawScore)

	cands, _ = m.Match(normalizer.Normalize("ABCDE"))
	require.Len(t, cands, 1)
	assert.Equal(t, int64(2), cands[0].PartID)
	assert.Equal(t, types.MatchExact, cands[0].Type)
}

func TestExactDuplicateCodeWarns(t *testing.T) {
	parts := []*types.Part{
		{ID: 1, Name: "a", OEMCode: "X-90001", Status: types.PartStatusActive},
		{ID: 2, Name: "b", OEMCode: "X90001", Status: types.PartStatusActive},
	}
	m := NewExact(catalog.BuildSnapshot(1, parts, nil))

	cands, warnings := m.Match(normalizer.Normalize("X-90001"))
	require.Len(t, cands, 2)
	assert.Equal(t, int64(1), cands[0].PartID)
	assert.Equal(t, int64(2), cands[1].PartID)
	require.Len(t, warnings, 1)
	assert.Equal(t, types.WarnAmbiguousExactMatch, warnings[0])
}

func TestSynonymFullAliasCoverage(t *testing.T) {
	m := NewSynonym(testSnapshot())

	cands := m.Match(normalizer.Normalize("لنت جلو"))
	require.Len(t, cands, 1)
	assert.Equal(t, int64(1), cands[0].PartID)
	assert.Equal(t, types.MatchSynonym, cands[0].Type)
	assert.InDelta(t, 0.9, cands[0].RawScore, 1e-9)
	assert.Equal(t, "alias", cands[0].FieldMatched)
}

func TestSynonymPartialCoverageScales(t *testing.T) {
	m := NewSynonym(testSnapshot())

	// 2 of 4 alias tokens covered: 0.8 * 0.5
	cands := m.Match(normalizer.Normalize("صفحه دیسک"))
	require.Len(t, cands, 1)
	assert.Equal(t, int64(3), cands[0].PartID)
	assert.InDelta(t, 0.4, cands[0].RawScore, 1e-9)
}

func TestSynonymBelowFloorDropped(t *testing.T) {
	parts := []*types.Part{{ID: 1, Name: "x", OEMCode: "C1", Status: types.PartStatusActive}}
	synonyms := []*types.Synonym{{ID: 1, PartID: 1, Alias: "one two three four five", Weight: 1.0}}
	m := NewSynonym(catalog.BuildSnapshot(1, parts, synonyms))

	// 1 of 5 tokens covered: 0.2, under the floor
	assert.Empty(t, m.Match(normalizer.Normalize("one")))
}

func TestSynonymBestAliasPerPart(t *testing.T) {
	parts := []*types.Part{{ID: 1, Name: "x", OEMCode: "C1", Status: types.PartStatusActive}}
	synonyms := []*types.Synonym{
		{ID: 1, PartID: 1, Alias: "brake pad", Weight: 0.5},
		{ID: 2, PartID: 1, Alias: "brake", Weight: 1.0},
	}
	m := NewSynonym(catalog.BuildSnapshot(1, parts, synonyms))

	cands := m.Match(normalizer.Normalize("brake"))
	require.Len(t, cands, 1)
	assert.InDelta(t, 1.0, cands[0].RawScore, 1e-9)
}

func TestFuzzyCatchesTypo(t *testing.T) {
	parts := []*types.Part{{ID: 1, Name: "فیلتر هوا", OEMCode: "C1", Status: types.PartStatusActive}}
	m := NewFuzzy(catalog.BuildSnapshot(1, parts, nil))

	cands := m.Match(normalizer.Normalize("فیلتر هوl"), nil)
	require.Len(t, cands, 1)
	assert.Equal(t, types.MatchFuzzy, cands[0].Type)
	assert.Greater(t, cands[0].RawScore, minFuzzyScore)
	assert.Less(t, cands[0].RawScore, 1.0)
}

func TestFuzzySingleTokenAgainstNameWords(t *testing.T) {
	parts := []*types.Part{{ID: 1, Name: "لنت ترمز جلو تیگو هشت", OEMCode: "C1", Status: types.PartStatusActive}}
	m := NewFuzzy(catalog.BuildSnapshot(1, parts, nil))

	// "ترمذ" is a typo of "ترمز"; whole-name distance alone would reject it
	cands := m.Match(normalizer.Normalize("ترمذ"), nil)
	require.Len(t, cands, 1)
	assert.GreaterOrEqual(t, cands[0].RawScore, 0.75)
}

func TestFuzzySkipsCoveredParts(t *testing.T) {
	parts := []*types.Part{{ID: 1, Name: "لنت ترمز", OEMCode: "C1", Status: types.PartStatusActive}}
	m := NewFuzzy(catalog.BuildSnapshot(1, parts, nil))

	covered := map[int64]float64{1: 1.0}
	assert.Empty(t, m.Match(normalizer.Normalize("لنت ترمز"), covered))

	// Weakly covered parts are still fuzzy-matched
	covered[1] = 0.4
	assert.NotEmpty(t, m.Match(normalizer.Normalize("لنت ترمز"), covered))
}

func TestFuzzyMatchesCategory(t *testing.T) {
	parts := []*types.Part{{
		ID:       1,
		Name:     "J52-1109111",
		Category: "فیلتر هوا",
		OEMCode:  "J52-1109111",
		Status:   types.PartStatusActive,
	}}
	m := NewFuzzy(catalog.BuildSnapshot(1, parts, nil))

	cands := m.Match(normalizer.Normalize("فیلتر هوi"), nil)
	require.Len(t, cands, 1)
	assert.Equal(t, "category", cands[0].FieldMatched)
	assert.Greater(t, cands[0].RawScore, minFuzzyScore)
}

func TestFuzzyRejectsUnrelated(t *testing.T) {
	parts := []*types.Part{{ID: 1, Name: "لنت ترمز جلو", OEMCode: "C1", Status: types.PartStatusActive}}
	m := NewFuzzy(catalog.BuildSnapshot(1, parts, nil))

	assert.Empty(t, m.Match(normalizer.Normalize("radiator hose"), nil))
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "brake", "brake", 1.0},
		{"empty both", "", "", 1.0},
		{"one empty", "brake", "", 0.0},
		{"single edit", "brakes", "brake", 1.0 - 1.0/6.0},
		{"disjoint", "ab", "xy", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity([]rune(tt.a), []rune(tt.b))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
