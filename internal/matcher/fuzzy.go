package matcher

import (
	"github.com/partkade/partsearch/internal/catalog"
	"github.com/partkade/partsearch/internal/normalizer"
	"github.com/partkade/partsearch/pkg/types"
)

// minFuzzyScore is the similarity floor below which an edit-distance hit is
// considered noise rather than a typo
const minFuzzyScore = 0.55

// coveredScore marks a part as already well-matched by a cheaper strategy;
// fuzzy skips those parts entirely
const coveredScore = 0.9

// Fuzzy matches misspelled queries against part names and categories with
// normalized Levenshtein similarity. It is the most expensive strategy, so
// parts that exact or synonym matching already scored highly are skipped.
type Fuzzy struct {
	snap *catalog.Snapshot
}

// NewFuzzy creates a fuzzy matcher over the given snapshot
func NewFuzzy(snap *catalog.Snapshot) *Fuzzy {
	return &Fuzzy{snap: snap}
}

// Match scans part names in ascending ID order. covered holds the best raw
// score other strategies produced per part; entries at or above coveredScore
// are skipped.
func (m *Fuzzy) Match(query normalizer.Normalized, covered map[int64]float64) []types.MatchCandidate {
	if query.Empty() {
		return nil
	}
	queryRunes := []rune(query.Text)

	var candidates []types.MatchCandidate
	for _, id := range m.snap.PartIDs() {
		if covered[id] >= coveredScore {
			continue
		}
		fields, ok := m.snap.Fields(id)
		if !ok || fields.Name == "" {
			continue
		}

		score := Similarity(queryRunes, []rune(fields.Name))
		field := "name"

		// A one-word query may be a typo of a single word in a longer
		// name; whole-name distance would bury it
		if len(query.Tokens) == 1 {
			for _, nameTok := range normalizer.Normalize(fields.Name).Tokens {
				if s := Similarity(queryRunes, []rune(nameTok)); s > score {
					score = s
				}
			}
		}

		if fields.Category != "" {
			if s := Similarity(queryRunes, []rune(fields.Category)); s > score {
				score = s
				field = "category"
			}
		}
		if fields.Subcategory != "" {
			if s := Similarity(queryRunes, []rune(fields.Subcategory)); s > score {
				score = s
				field = "subcategory"
			}
		}

		if score < minFuzzyScore {
			continue
		}
		candidates = append(candidates, types.MatchCandidate{
			PartID:       id,
			Type:         types.MatchFuzzy,
			RawScore:     score,
			FieldMatched: field,
		})
	}
	return candidates
}

// Similarity returns 1 - levenshtein(a, b)/max(len(a), len(b)), so identical
// strings score 1.0 and fully different strings score 0.0
func Similarity(a, b []rune) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes edit distance with a single reusable row
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cur := row[j]
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			min := prev + cost
			if row[j]+1 < min {
				min = row[j] + 1
			}
			if row[j-1]+1 < min {
				min = row[j-1] + 1
			}
			row[j] = min
			prev = cur
		}
	}
	return row[len(b)]
}
