// Package types provides shared type definitions for the partsearch engine.
//
// This package defines the domain types used across components: catalog parts
// and synonyms, per-strategy match candidates, ranked results, and bulk query
// lines.
//
// # Core Types
//
// Part is a catalog entity, read-only to the search core:
//
//	part := &types.Part{
//	    Name:     "Front Brake Pad - Tiggo 8",
//	    OEMCode:  "T11-3501080",
//	    Category: "brake",
//	}
//
// MatchCandidate is a strategy-local hit, produced by the exact, synonym,
// fuzzy and semantic matchers and consumed by the ranker:
//
//	cand := types.MatchCandidate{
//	    PartID:   part.ID,
//	    Type:     types.MatchSynonym,
//	    RawScore: 0.9,
//	}
//
// RankedResult is the output unit, ordered descending by composite score with
// deterministic tie-breaks (match type priority, then part ID). Scores are
// normalized to [0, 1].
//
// BulkQueryLine carries one line of a multi-line submission through the
// pipeline; line numbers stay contiguous and 1-based even for blank or
// unmatched lines so callers can map results back to order items.
package types
