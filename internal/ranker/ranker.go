package ranker

import (
	"sort"

	"github.com/partkade/partsearch/internal/catalog"
	"github.com/partkade/partsearch/pkg/types"
)

// DefaultMinScore is the composite-score floor below which a candidate is
// dropped from the response
const DefaultMinScore = 0.3

// Weights scales raw match scores per strategy before candidates compete.
// Exact stays untouched; fuzzy is discounted hardest because edit distance
// is the least precise signal.
type Weights struct {
	Exact    float64
	Synonym  float64
	Semantic float64
	Fuzzy    float64
}

// DefaultWeights returns the standard strategy weights
func DefaultWeights() Weights {
	return Weights{
		Exact:    1.0,
		Synonym:  0.9,
		Semantic: 0.85,
		Fuzzy:    0.6,
	}
}

// For returns the weight for a match type; unknown types get 0 so they can
// never outrank a real strategy
func (w Weights) For(t types.MatchType) float64 {
	switch t {
	case types.MatchExact:
		return w.Exact
	case types.MatchSynonym:
		return w.Synonym
	case types.MatchSemantic:
		return w.Semantic
	case types.MatchFuzzy:
		return w.Fuzzy
	default:
		return 0
	}
}

// Ranker merges candidates from all strategies into one ranked list
type Ranker struct {
	weights  Weights
	minScore float64
}

// New creates a ranker. A non-positive minScore falls back to
// DefaultMinScore.
func New(weights Weights, minScore float64) *Ranker {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Ranker{weights: weights, minScore: minScore}
}

// Rank weighs, deduplicates, filters, and orders candidates. A part hit by
// several strategies keeps its single best weighted score and the match type
// that produced it. Filters must already be normalized. limit <= 0 means no
// limit.
//
// Ordering is total: score descending, then match-type priority, then part
// ID, so equal inputs always produce the same ranking.
func (r *Ranker) Rank(snap *catalog.Snapshot, candidates []types.MatchCandidate, filters *types.Filters, limit int) []types.RankedResult {
	best := make(map[int64]types.MatchCandidate)
	score := make(map[int64]float64)

	for _, cand := range candidates {
		part := snap.Part(cand.PartID)
		if part == nil {
			continue
		}
		if !snap.FilterAllows(cand.PartID, filters) {
			continue
		}

		weighted := cand.RawScore * r.weights.For(cand.Type)
		if weighted > 1.0 {
			weighted = 1.0
		}
		prev, seen := score[cand.PartID]
		switch {
		case !seen, weighted > prev:
			best[cand.PartID] = cand
			score[cand.PartID] = weighted
		case weighted == prev && cand.Type.Priority() < best[cand.PartID].Type.Priority():
			best[cand.PartID] = cand
		}
	}

	results := make([]types.RankedResult, 0, len(best))
	for id, cand := range best {
		s := score[id]
		if s < r.minScore {
			continue
		}
		results = append(results, types.RankedResult{
			Part:         snap.Part(id),
			Score:        s,
			Type:         cand.Type,
			FieldMatched: cand.FieldMatched,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if pi, pj := results[i].Type.Priority(), results[j].Type.Priority(); pi != pj {
			return pi < pj
		}
		return results[i].Part.ID < results[j].Part.ID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}
