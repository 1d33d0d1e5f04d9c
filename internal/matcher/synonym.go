package matcher

import (
	"github.com/partkade/partsearch/internal/catalog"
	"github.com/partkade/partsearch/internal/normalizer"
	"github.com/partkade/partsearch/pkg/types"
)

// minSynonymScore drops alias hits whose weighted coverage is too thin to
// mean anything (a single shared stopword-ish token on a long alias)
const minSynonymScore = 0.3

// Synonym matches queries against the alias index. A hit's raw score is the
// alias weight scaled by how much of the alias the query covers, so a query
// containing every alias token scores the full weight.
type Synonym struct {
	snap *catalog.Snapshot
}

// NewSynonym creates a synonym matcher over the given snapshot
func NewSynonym(snap *catalog.Snapshot) *Synonym {
	return &Synonym{snap: snap}
}

// Match returns the best synonym candidate per part
func (m *Synonym) Match(query normalizer.Normalized) []types.MatchCandidate {
	if len(query.Tokens) == 0 {
		return nil
	}

	queryTokens := make(map[string]struct{}, len(query.Tokens))
	for _, tok := range query.Tokens {
		queryTokens[tok] = struct{}{}
	}

	best := make(map[int64]float64)
	var order []int64 // first-seen part order, candidates stay deterministic

	for _, idx := range m.snap.AliasCandidates(query.Tokens) {
		entry := &m.snap.Aliases()[idx]

		matched := 0
		for _, tok := range entry.Tokens {
			if _, ok := queryTokens[tok]; ok {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		coverage := float64(matched) / float64(len(entry.Tokens))
		score := entry.Weight * coverage
		if score > 1.0 {
			score = 1.0
		}
		if score < minSynonymScore {
			continue
		}

		if prev, ok := best[entry.PartID]; !ok {
			best[entry.PartID] = score
			order = append(order, entry.PartID)
		} else if score > prev {
			best[entry.PartID] = score
		}
	}

	candidates := make([]types.MatchCandidate, 0, len(order))
	for _, id := range order {
		candidates = append(candidates, types.MatchCandidate{
			PartID:       id,
			Type:         types.MatchSynonym,
			RawScore:     best[id],
			FieldMatched: "alias",
		})
	}
	return candidates
}
