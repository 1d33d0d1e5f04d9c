package types

// MatchType identifies the strategy that produced a candidate
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchSynonym  MatchType = "synonym"
	MatchSemantic MatchType = "semantic"
	MatchFuzzy    MatchType = "fuzzy"
)

// Priority returns the tie-break priority of a match type; lower wins.
// Exact beats synonym beats semantic beats fuzzy.
func (t MatchType) Priority() int {
	switch t {
	case MatchExact:
		return 0
	case MatchSynonym:
		return 1
	case MatchSemantic:
		return 2
	case MatchFuzzy:
		return 3
	default:
		return 4
	}
}

// MatchCandidate is a per-strategy hit for a part, before ranking.
// A part may accumulate candidates from several strategies.
type MatchCandidate struct {
	PartID       int64
	Type         MatchType
	RawScore     float64 // strategy-local score in [0, 1]
	FieldMatched string  // field that produced the score (code, name, alias, ...)
}

// RankedResult is a single ranked search hit
type RankedResult struct {
	Part         *Part
	Rank         int     // position in result set (1-based)
	Score        float64 // composite score in [0, 1]
	Type         MatchType
	FieldMatched string
}

// Validate checks if the ranked result is well formed
func (r *RankedResult) Validate() error {
	if r.Part == nil {
		return ErrMissingPart
	}
	if r.Rank < 1 {
		return ErrInvalidRank
	}
	if r.Score < 0 || r.Score > 1 {
		return ErrInvalidScore
	}
	return nil
}

// Filters narrows the catalog subset a search considers
type Filters struct {
	Category     string
	VehicleMake  string
	VehicleModel string
}

// Empty reports whether no filter is set
func (f *Filters) Empty() bool {
	return f == nil || (f.Category == "" && f.VehicleMake == "" && f.VehicleModel == "")
}

// Allows reports whether a part passes the filters. Comparison happens on
// normalized field values, so callers must normalize filter values the same
// way catalog fields are normalized.
func (f *Filters) Allows(category, vehicleMake, vehicleModel string) bool {
	if f == nil {
		return true
	}
	if f.Category != "" && f.Category != category {
		return false
	}
	if f.VehicleMake != "" && f.VehicleMake != vehicleMake {
		return false
	}
	if f.VehicleModel != "" && f.VehicleModel != vehicleModel {
		return false
	}
	return true
}

// BulkQueryLine is the per-line outcome of a bulk search. Line numbers are a
// contiguous 1-based sequence over the input; unmatched and blank lines are
// preserved with an empty result list so callers can map lines back to order
// items one-to-one.
type BulkQueryLine struct {
	LineNumber int
	RawText    string
	Results    []RankedResult
	Warnings   []string
}
