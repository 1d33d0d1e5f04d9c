package searcher

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/partkade/partsearch/internal/ai"
	"github.com/partkade/partsearch/internal/catalog"
	"github.com/partkade/partsearch/internal/matcher"
	"github.com/partkade/partsearch/internal/normalizer"
	"github.com/partkade/partsearch/internal/ranker"
	"github.com/partkade/partsearch/pkg/types"
)

const (
	// DefaultLimit caps results when the request doesn't say
	DefaultLimit = 10

	// MaxLimit is the hard ceiling on requested results
	MaxLimit = 100

	// DefaultAITimeout bounds how long the AI leg may run before the
	// response ships with base results only
	DefaultAITimeout = 3 * time.Second
)

// SearchRequest contains parameters for one search
type SearchRequest struct {
	Query     string
	Filters   *types.Filters
	Limit     int
	UseCache  bool
	CacheTTL  time.Duration
	DisableAI bool // force base-only matching even when a provider is configured
}

// SearchResponse contains ranked results and metadata
type SearchResponse struct {
	Query           string
	Results         []types.RankedResult
	Warnings        []string
	AIUsed          bool // the AI leg contributed to this response
	CacheHit        bool
	SnapshotVersion int64
	Duration        time.Duration
}

// Engine coordinates the matching strategies over the current catalog
// snapshot. The base leg (exact, synonym, fuzzy) always runs; the AI leg
// (semantic similarity plus query analysis) runs alongside it when a
// provider is configured, and any AI failure quietly degrades the response
// to base results.
type Engine struct {
	holder   *catalog.Holder
	ranker   *ranker.Ranker
	provider ai.Provider
	semantic *semanticIndex
	cache    *queryCache
	log      zerolog.Logger

	aiTimeout time.Duration
}

// Option configures an Engine
type Option func(*Engine)

// WithAITimeout overrides the AI leg time budget
func WithAITimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.aiTimeout = d
		}
	}
}

// WithRanker overrides the default ranker
func WithRanker(r *ranker.Ranker) Option {
	return func(e *Engine) { e.ranker = r }
}

// NewEngine creates a search engine. provider may be nil, which disables the
// AI leg entirely.
func NewEngine(holder *catalog.Holder, provider ai.Provider, log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		holder:    holder,
		ranker:    ranker.New(ranker.DefaultWeights(), 0),
		provider:  provider,
		semantic:  newSemanticIndex(),
		cache:     newQueryCache(defaultCacheSize),
		log:       log.With().Str("component", "searcher").Logger(),
		aiTimeout: DefaultAITimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// legResult carries one leg's contribution to the join
type legResult struct {
	candidates []types.MatchCandidate
	warnings   []string
	filters    *types.Filters // analysis-derived narrowing, AI leg only
	aiUsed     bool
	err        error
}

// Search runs the full pipeline: normalize, match, weigh, rank. It fails
// only on empty queries and missing catalog; AI trouble never surfaces as an
// error.
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	startTime := time.Now()

	snap, err := e.holder.Current()
	if err != nil {
		return nil, err
	}

	norm := normalizer.Normalize(req.Query)
	if norm.Empty() {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidQuery, req.Query)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	filters := catalog.NormalizeFilters(req.Filters)

	if req.UseCache {
		if cached, ok := e.cache.get(cacheKey(norm.Text, filters, limit, snap.Version())); ok {
			cached.CacheHit = true
			cached.Duration = time.Since(startTime)
			return cached, nil
		}
	}

	baseChan := make(chan legResult, 1)
	aiChan := make(chan legResult, 1)

	go e.runBaseLeg(ctx, snap, norm, baseChan)
	go e.runAILeg(ctx, snap, req, norm, aiChan)

	var baseRes, aiRes legResult
	var baseDone, aiDone bool
	for !baseDone || !aiDone {
		select {
		case baseRes = <-baseChan:
			baseDone = true
		case aiRes = <-aiChan:
			aiDone = true
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if baseRes.err != nil {
		return nil, baseRes.err
	}
	if aiRes.err != nil {
		// Absorbed: base results still ship
		e.log.Warn().Err(aiRes.err).Str("query", norm.Text).Msg("ai leg failed, serving base results")
		aiRes = legResult{}
	}

	// Analysis-derived vehicle narrowing scopes the AI leg's own candidates;
	// explicit request filters always win
	aiCandidates := aiRes.candidates
	if filters.Empty() && aiRes.filters != nil && !aiRes.filters.Empty() {
		aiCandidates = narrowCandidates(snap, aiCandidates, aiRes.filters)
	}

	all := make([]types.MatchCandidate, 0, len(baseRes.candidates)+len(aiCandidates))
	all = append(all, baseRes.candidates...)
	all = append(all, aiCandidates...)

	response := &SearchResponse{
		Query:           req.Query,
		Results:         e.ranker.Rank(snap, all, filters, limit),
		Warnings:        append(baseRes.warnings, aiRes.warnings...),
		AIUsed:          aiRes.aiUsed,
		SnapshotVersion: snap.Version(),
		Duration:        time.Since(startTime),
	}

	if req.UseCache {
		ttl := req.CacheTTL
		if ttl <= 0 {
			ttl = defaultCacheTTL
		}
		e.cache.set(cacheKey(norm.Text, filters, limit, snap.Version()), response, ttl)
	}

	return response, nil
}

// runBaseLeg executes the deterministic strategies: exact first, synonym
// next, fuzzy last with already-covered parts skipped
func (e *Engine) runBaseLeg(ctx context.Context, snap *catalog.Snapshot, norm normalizer.Normalized, resultChan chan<- legResult) {
	var res legResult

	exactCands, warnings := matcher.NewExact(snap).Match(norm)
	res.warnings = warnings
	res.candidates = append(res.candidates, exactCands...)

	synCands := matcher.NewSynonym(snap).Match(norm)
	res.candidates = append(res.candidates, synCands...)

	covered := make(map[int64]float64, len(res.candidates))
	for _, cand := range res.candidates {
		if cand.RawScore > covered[cand.PartID] {
			covered[cand.PartID] = cand.RawScore
		}
	}
	res.candidates = append(res.candidates, matcher.NewFuzzy(snap).Match(norm, covered)...)

	select {
	case resultChan <- res:
	case <-ctx.Done():
	}
}

// narrowCandidates keeps candidates whose parts pass the given normalized
// filters
func narrowCandidates(snap *catalog.Snapshot, candidates []types.MatchCandidate, filters *types.Filters) []types.MatchCandidate {
	kept := candidates[:0]
	for _, cand := range candidates {
		if snap.FilterAllows(cand.PartID, filters) {
			kept = append(kept, cand)
		}
	}
	return kept
}

// Provider reports the configured AI provider name, or "none"
func (e *Engine) Provider() string {
	if e.provider == nil {
		return "none"
	}
	return e.provider.Provider()
}
