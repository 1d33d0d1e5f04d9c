package searcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/partkade/partsearch/internal/ai"
	"github.com/partkade/partsearch/internal/catalog"
	"github.com/partkade/partsearch/internal/matcher"
	"github.com/partkade/partsearch/internal/normalizer"
	"github.com/partkade/partsearch/pkg/types"
)

const (
	// minSemanticScore drops cosine hits too weak to mean anything
	minSemanticScore = 0.5

	// expansionDiscount scales candidates found through AI-expanded terms;
	// they matched a paraphrase, not the buyer's own words
	expansionDiscount = 0.9

	// maxExpandedTerms caps how many analysis expansion terms are matched
	maxExpandedTerms = 5
)

// semanticIndex holds one embedding per part, tied to the snapshot version
// it was built from. Rebuilt on snapshot swap; queries against a stale
// version fall back to base matching.
type semanticIndex struct {
	mu      sync.RWMutex
	version int64
	vectors map[int64][]float32
}

func newSemanticIndex() *semanticIndex {
	return &semanticIndex{}
}

func (idx *semanticIndex) store(version int64, vectors map[int64][]float32) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.version = version
	idx.vectors = vectors
}

func (idx *semanticIndex) forVersion(version int64) (map[int64][]float32, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.version != version || idx.vectors == nil {
		return nil, false
	}
	return idx.vectors, true
}

// RebuildSemanticIndex embeds every part's search text for the given
// snapshot. Called on snapshot swap; until it completes, searches against
// the new snapshot simply skip the similarity strategy.
func (e *Engine) RebuildSemanticIndex(ctx context.Context, snap *catalog.Snapshot) error {
	if e.provider == nil {
		return nil
	}

	ids := snap.PartIDs()
	vectors := make(map[int64][]float32, len(ids))

	for start := 0; start < len(ids); start += ai.MaxBatchSize {
		end := start + ai.MaxBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		texts := make([]string, 0, len(batch))
		batchIDs := make([]int64, 0, len(batch))
		for _, id := range batch {
			if text := snap.SearchText(id); text != "" {
				texts = append(texts, text)
				batchIDs = append(batchIDs, id)
			}
		}
		if len(texts) == 0 {
			continue
		}

		embeddings, err := e.provider.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding catalog batch: %w", err)
		}
		if len(embeddings) != len(batchIDs) {
			return fmt.Errorf("embedding count mismatch: got %d, want %d", len(embeddings), len(batchIDs))
		}
		for i, emb := range embeddings {
			vectors[batchIDs[i]] = emb.Vector
		}
	}

	e.semantic.store(snap.Version(), vectors)
	e.log.Info().
		Int64("version", snap.Version()).
		Int("parts", len(vectors)).
		Msg("semantic index rebuilt")
	return nil
}

// aiStepResult carries one AI call's outcome through the inner join
type aiStepResult struct {
	embedding *ai.Embedding
	analysis  *ai.Analysis
	err       error
}

// runAILeg runs query embedding and query analysis concurrently under the
// AI time budget and converts what comes back into candidates. The leg
// reports an error only when nothing succeeded; partial success still
// contributes.
func (e *Engine) runAILeg(ctx context.Context, snap *catalog.Snapshot, req SearchRequest, norm normalizer.Normalized, resultChan chan<- legResult) {
	var res legResult
	if e.provider == nil || req.DisableAI {
		select {
		case resultChan <- res:
		case <-ctx.Done():
		}
		return
	}

	aiCtx, cancel := context.WithTimeout(ctx, e.aiTimeout)
	defer cancel()

	embedChan := make(chan aiStepResult, 1)
	analyzeChan := make(chan aiStepResult, 1)

	go func() {
		emb, err := e.provider.Embed(aiCtx, norm.Text)
		embedChan <- aiStepResult{embedding: emb, err: err}
	}()
	go func() {
		analysis, err := e.provider.Analyze(aiCtx, req.Query)
		analyzeChan <- aiStepResult{analysis: analysis, err: err}
	}()

	embedRes := <-embedChan
	analyzeRes := <-analyzeChan

	if embedRes.err != nil && analyzeRes.err != nil {
		res.err = fmt.Errorf("embed: %v; analyze: %v", embedRes.err, analyzeRes.err)
		select {
		case resultChan <- res:
		case <-ctx.Done():
		}
		return
	}

	if embedRes.err == nil {
		res.candidates = append(res.candidates, e.similarityCandidates(snap, embedRes.embedding)...)
		res.aiUsed = true
	} else {
		e.log.Debug().Err(embedRes.err).Msg("query embedding failed")
	}

	if analyzeRes.err == nil && analyzeRes.analysis != nil {
		res.candidates = append(res.candidates, e.expansionCandidates(snap, norm, analyzeRes.analysis)...)
		res.filters = analysisFilters(analyzeRes.analysis)
		res.aiUsed = true
	} else if analyzeRes.err != nil {
		e.log.Debug().Err(analyzeRes.err).Msg("query analysis failed")
	}

	select {
	case resultChan <- res:
	case <-ctx.Done():
	}
}

// similarityCandidates scores the query embedding against the per-part
// index. Iterates in snapshot ID order so output is deterministic.
func (e *Engine) similarityCandidates(snap *catalog.Snapshot, query *ai.Embedding) []types.MatchCandidate {
	vectors, ok := e.semantic.forVersion(snap.Version())
	if !ok {
		return nil
	}

	var candidates []types.MatchCandidate
	for _, id := range snap.PartIDs() {
		vec, ok := vectors[id]
		if !ok {
			continue
		}
		sim := ai.CosineSimilarity(query.Vector, vec)
		if sim < minSemanticScore {
			continue
		}
		candidates = append(candidates, types.MatchCandidate{
			PartID:       id,
			Type:         types.MatchSemantic,
			RawScore:     sim,
			FieldMatched: "search_text",
		})
	}
	return candidates
}

// expansionCandidates reruns the alias index over AI-suggested alternative
// phrasings. Hits carry the semantic type so ranking treats them as AI
// findings, not literal matches.
func (e *Engine) expansionCandidates(snap *catalog.Snapshot, norm normalizer.Normalized, analysis *ai.Analysis) []types.MatchCandidate {
	terms := analysis.ExpandedTerms
	if len(terms) > maxExpandedTerms {
		terms = terms[:maxExpandedTerms]
	}

	synonyms := matcher.NewSynonym(snap)
	seen := make(map[int64]struct{})
	var candidates []types.MatchCandidate

	for _, term := range terms {
		termNorm := normalizer.Normalize(term)
		if termNorm.Empty() || termNorm.Text == norm.Text {
			continue
		}
		for _, cand := range synonyms.Match(termNorm) {
			if _, ok := seen[cand.PartID]; ok {
				continue
			}
			seen[cand.PartID] = struct{}{}
			candidates = append(candidates, types.MatchCandidate{
				PartID:       cand.PartID,
				Type:         types.MatchSemantic,
				RawScore:     cand.RawScore * expansionDiscount,
				FieldMatched: "expansion",
			})
		}
	}
	return candidates
}

// analysisFilters turns extracted vehicle entities into normalized filters
func analysisFilters(analysis *ai.Analysis) *types.Filters {
	if analysis.VehicleMake == "" && analysis.VehicleModel == "" && analysis.Category == "" {
		return nil
	}
	return catalog.NormalizeFilters(&types.Filters{
		Category:     analysis.Category,
		VehicleMake:  analysis.VehicleMake,
		VehicleModel: analysis.VehicleModel,
	})
}
