package catalog

import (
	"sort"
	"time"

	"github.com/partkade/partsearch/internal/normalizer"
	"github.com/partkade/partsearch/pkg/types"
)

// PartFields holds the normalized field values matchers compare against
type PartFields struct {
	Name         string
	Category     string
	Subcategory  string
	VehicleMake  string
	VehicleModel string
}

// AliasEntry is a prepared synonym: normalized alias tokens plus the target
// part and its confidence weight
type AliasEntry struct {
	SynonymID int64
	PartID    int64
	Weight    float64
	Alias     string // normalized alias text
	Tokens    []string

	tokenSet map[string]struct{}
}

// Contains reports whether the alias includes the given normalized token
func (e *AliasEntry) Contains(token string) bool {
	_, ok := e.tokenSet[token]
	return ok
}

// Snapshot is an immutable view of the catalog prepared for matching: parts
// keyed by ID, a normalized OEM-code index, the alias index with per-token
// postings, and normalized field values. Snapshots are never mutated after
// construction; refresh swaps in a whole new one so a search never observes
// a torn index.
type Snapshot struct {
	version  int64
	loadedAt time.Time

	parts      map[int64]*types.Part
	order      []int64 // part IDs ascending, for deterministic iteration
	fields     map[int64]PartFields
	searchText map[int64]string

	codeIndex     map[string][]int64
	aliases       []AliasEntry
	aliasPostings map[string][]int // normalized token -> alias indices
}

// BuildSnapshot prepares a snapshot from raw catalog records. Inactive parts
// are excluded entirely; synonyms pointing at unknown or inactive parts are
// dropped. Alias entries keep synonym-ID order so candidate generation is
// deterministic across rebuilds of the same catalog.
func BuildSnapshot(version int64, parts []*types.Part, synonyms []*types.Synonym) *Snapshot {
	s := &Snapshot{
		version:       version,
		loadedAt:      time.Now(),
		parts:         make(map[int64]*types.Part, len(parts)),
		fields:        make(map[int64]PartFields, len(parts)),
		searchText:    make(map[int64]string, len(parts)),
		codeIndex:     make(map[string][]int64),
		aliasPostings: make(map[string][]int),
	}

	for _, part := range parts {
		if part == nil || !part.Active() {
			continue
		}
		s.parts[part.ID] = part
		s.order = append(s.order, part.ID)

		s.fields[part.ID] = PartFields{
			Name:         normalizer.Normalize(part.Name).Text,
			Category:     normalizer.Normalize(part.Category).Text,
			Subcategory:  normalizer.Normalize(part.Subcategory).Text,
			VehicleMake:  normalizer.Normalize(part.VehicleMake).Text,
			VehicleModel: normalizer.Normalize(part.VehicleModel).Text,
		}
		s.searchText[part.ID] = normalizer.Normalize(part.SearchText()).Text

		if code := normalizer.NormalizeCode(part.OEMCode); code != "" {
			s.codeIndex[code] = append(s.codeIndex[code], part.ID)
		}
	}
	sort.Slice(s.order, func(i, j int) bool { return s.order[i] < s.order[j] })

	// Code collisions keep ascending part-ID order for deterministic output
	for _, ids := range s.codeIndex {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	sorted := make([]*types.Synonym, len(synonyms))
	copy(sorted, synonyms)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, syn := range sorted {
		if syn == nil {
			continue
		}
		if _, ok := s.parts[syn.PartID]; !ok {
			continue
		}
		norm := normalizer.Normalize(syn.Alias)
		if norm.Empty() {
			continue
		}
		weight := syn.Weight
		if weight <= 0 {
			weight = 1.0
		}
		entry := AliasEntry{
			SynonymID: syn.ID,
			PartID:    syn.PartID,
			Weight:    weight,
			Alias:     norm.Text,
			Tokens:    norm.Tokens,
			tokenSet:  make(map[string]struct{}, len(norm.Tokens)),
		}
		for _, tok := range norm.Tokens {
			entry.tokenSet[tok] = struct{}{}
		}
		idx := len(s.aliases)
		s.aliases = append(s.aliases, entry)
		for tok := range entry.tokenSet {
			s.aliasPostings[tok] = append(s.aliasPostings[tok], idx)
		}
	}

	return s
}

// Version returns the snapshot version; it changes on every refresh
func (s *Snapshot) Version() int64 { return s.version }

// LoadedAt returns when the snapshot was built
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// PartCount returns the number of active parts in the snapshot
func (s *Snapshot) PartCount() int { return len(s.parts) }

// AliasCount returns the number of alias entries in the snapshot
func (s *Snapshot) AliasCount() int { return len(s.aliases) }

// Part returns the part with the given ID, or nil
func (s *Snapshot) Part(id int64) *types.Part { return s.parts[id] }

// PartIDs returns all part IDs in ascending order. Callers must not modify
// the returned slice.
func (s *Snapshot) PartIDs() []int64 { return s.order }

// Fields returns the normalized field values for a part
func (s *Snapshot) Fields(id int64) (PartFields, bool) {
	f, ok := s.fields[id]
	return f, ok
}

// SearchText returns the normalized semantic-match text for a part
func (s *Snapshot) SearchText(id int64) string { return s.searchText[id] }

// LookupCode returns the IDs of parts whose normalized OEM code equals the
// given normalized code. More than one ID means the catalog carries duplicate
// codes, a data-integrity condition the caller must surface.
func (s *Snapshot) LookupCode(code string) []int64 { return s.codeIndex[code] }

// Aliases returns the prepared alias entries. Callers must not modify the
// returned slice.
func (s *Snapshot) Aliases() []AliasEntry { return s.aliases }

// AliasCandidates returns the indices of alias entries sharing at least one
// token with the query, deduplicated and ascending.
func (s *Snapshot) AliasCandidates(tokens []string) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, tok := range tokens {
		for _, idx := range s.aliasPostings[tok] {
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}

// NormalizeFilters returns a copy of the filters with values normalized the
// same way catalog fields are. Nil stays nil.
func NormalizeFilters(f *types.Filters) *types.Filters {
	if f == nil {
		return nil
	}
	return &types.Filters{
		Category:     normalizer.Normalize(f.Category).Text,
		VehicleMake:  normalizer.Normalize(f.VehicleMake).Text,
		VehicleModel: normalizer.Normalize(f.VehicleModel).Text,
	}
}

// FilterAllows reports whether the part passes the already-normalized filters
func (s *Snapshot) FilterAllows(id int64, f *types.Filters) bool {
	if f.Empty() {
		return true
	}
	fields, ok := s.fields[id]
	if !ok {
		return false
	}
	return f.Allows(fields.Category, fields.VehicleMake, fields.VehicleModel)
}
