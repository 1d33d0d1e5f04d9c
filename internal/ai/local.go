package ai

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
)

// LocalDimension is the dimension of the hashed bag-of-words vectors
const LocalDimension = 256

// LocalProvider is a deterministic, offline provider. Each token is hashed
// into a fixed-size vector, so texts sharing words get a nonzero cosine
// similarity without any model or network. Good enough for development and
// tests; not a substitute for real embeddings.
type LocalProvider struct {
	model string
	cache *Cache
}

// NewLocalProvider creates a local provider
func NewLocalProvider(cache *Cache) (*LocalProvider, error) {
	return &LocalProvider{
		model: "hashed-bow",
		cache: cache,
	}, nil
}

func (l *LocalProvider) Embed(ctx context.Context, text string) (*Embedding, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	hash := ComputeHash(text)
	if l.cache != nil {
		if emb, ok := l.cache.Get(hash); ok {
			return emb, nil
		}
	}

	vector := make([]float32, LocalDimension)
	for _, token := range strings.Fields(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vector[h.Sum32()%LocalDimension] += 1.0
	}

	emb := &Embedding{
		Vector:    NormalizeVector(vector),
		Dimension: LocalDimension,
		Provider:  ProviderLocal,
		Model:     l.model,
		Hash:      hash,
	}
	if l.cache != nil {
		l.cache.Set(hash, emb)
	}
	return emb, nil
}

func (l *LocalProvider) EmbedBatch(ctx context.Context, texts []string) ([]*Embedding, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	embeddings := make([]*Embedding, len(texts))
	for i, text := range texts {
		emb, err := l.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Analyze returns an empty analysis: the local provider has no language
// model, so the search core falls back to its base strategies
func (l *LocalProvider) Analyze(ctx context.Context, query string) (*Analysis, error) {
	if query == "" {
		return nil, ErrEmptyText
	}
	return &Analysis{}, nil
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Model() string {
	return l.model
}

func (l *LocalProvider) Dimension() int {
	return LocalDimension
}

func (l *LocalProvider) Close() error {
	return nil
}
