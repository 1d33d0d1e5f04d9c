package types

import "errors"

// Domain errors surfaced by the search core
var (
	// ErrInvalidQuery means the query was empty after normalization.
	// Callers treat this as "no input", not a failure.
	ErrInvalidQuery = errors.New("query is empty after normalization")

	// ErrCatalogUnavailable means the catalog snapshot could not be loaded.
	// Fatal to search; never silently mapped to an empty result list.
	ErrCatalogUnavailable = errors.New("catalog snapshot unavailable")

	// Ranked result validation errors
	ErrMissingPart  = errors.New("ranked result has no part")
	ErrInvalidRank  = errors.New("rank must be >= 1")
	ErrInvalidScore = errors.New("score must be between 0 and 1")
)

// WarnAmbiguousExactMatch is the warning text attached to a response when two
// catalog parts share the same normalized OEM code. Duplicate codes are a
// data-integrity condition: results stay best-effort, the condition is
// surfaced rather than silently resolved.
const WarnAmbiguousExactMatch = "ambiguous exact match: duplicate OEM code in catalog"
