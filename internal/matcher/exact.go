package matcher

import (
	"unicode"

	"github.com/partkade/partsearch/internal/catalog"
	"github.com/partkade/partsearch/internal/normalizer"
	"github.com/partkade/partsearch/pkg/types"
)

// minCodeTokenLen filters out short alphanumeric fragments ("v6", "4x4")
// that are part of a name, not an OEM code
const minCodeTokenLen = 5

// Exact matches OEM codes. The whole query is tried as a code, then each
// code-like token, so "لنت جلو T11-3501080" still hits the code index even
// with descriptive words around it.
type Exact struct {
	snap *catalog.Snapshot
}

// NewExact creates an exact matcher over the given snapshot
func NewExact(snap *catalog.Snapshot) *Exact {
	return &Exact{snap: snap}
}

// Match returns exact candidates with raw score 1.0. The warnings slice is
// non-empty when a matched code maps to more than one part, which means the
// catalog carries duplicate OEM codes.
func (m *Exact) Match(query normalizer.Normalized) ([]types.MatchCandidate, []string) {
	codes := make([]string, 0, len(query.Tokens)+1)
	seen := make(map[string]struct{})

	// The whole query is always tried as a code. Short and digitless codes
	// ("1234", "ABCDE") only hit through this path; codeLike gates the
	// per-token lookups below, not this one.
	if code := normalizer.NormalizeCode(query.Text); code != "" {
		codes = append(codes, code)
		seen[code] = struct{}{}
	}
	for _, tok := range query.Tokens {
		if !codeLike(tok) {
			continue
		}
		code := normalizer.NormalizeCode(tok)
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	var candidates []types.MatchCandidate
	var warnings []string
	matched := make(map[int64]struct{})

	for _, code := range codes {
		ids := m.snap.LookupCode(code)
		if len(ids) > 1 {
			warnings = append(warnings, types.WarnAmbiguousExactMatch)
		}
		for _, id := range ids {
			if _, ok := matched[id]; ok {
				continue
			}
			matched[id] = struct{}{}
			candidates = append(candidates, types.MatchCandidate{
				PartID:       id,
				Type:         types.MatchExact,
				RawScore:     1.0,
				FieldMatched: "oem_code",
			})
		}
	}
	return candidates, warnings
}

// codeLike reports whether a token looks like an OEM code: long enough and
// containing at least one digit
func codeLike(token string) bool {
	if len([]rune(token)) < minCodeTokenLen {
		return false
	}
	for _, r := range token {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
