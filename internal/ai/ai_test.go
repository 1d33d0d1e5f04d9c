package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalEmbedDeterministic(t *testing.T) {
	provider, err := NewLocalProvider(nil)
	require.NoError(t, err)
	ctx := context.Background()

	a, err := provider.Embed(ctx, "لنت ترمز جلو")
	require.NoError(t, err)
	b, err := provider.Embed(ctx, "لنت ترمز جلو")
	require.NoError(t, err)

	assert.Equal(t, a.Vector, b.Vector)
	assert.Equal(t, LocalDimension, a.Dimension)
	assert.Equal(t, ProviderLocal, a.Provider)
}

func TestLocalEmbedSimilarityOrdering(t *testing.T) {
	provider, err := NewLocalProvider(nil)
	require.NoError(t, err)
	ctx := context.Background()

	query, err := provider.Embed(ctx, "لنت ترمز جلو")
	require.NoError(t, err)
	related, err := provider.Embed(ctx, "لنت ترمز عقب")
	require.NoError(t, err)
	unrelated, err := provider.Embed(ctx, "radiator coolant hose")
	require.NoError(t, err)

	simRelated := CosineSimilarity(query.Vector, related.Vector)
	simUnrelated := CosineSimilarity(query.Vector, unrelated.Vector)
	assert.Greater(t, simRelated, simUnrelated)
	assert.Greater(t, simRelated, 0.5)
}

func TestLocalEmbedEmptyText(t *testing.T) {
	provider, err := NewLocalProvider(nil)
	require.NoError(t, err)

	_, err = provider.Embed(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestLocalEmbedBatch(t *testing.T) {
	provider, err := NewLocalProvider(nil)
	require.NoError(t, err)

	embs, err := provider.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, embs, 2)

	_, err = provider.EmbedBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = provider.EmbedBatch(context.Background(), []string{"a", ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCacheDeepCopy(t *testing.T) {
	cache := NewCache(10)
	hash := ComputeHash("text")
	cache.Set(hash, &Embedding{Vector: []float32{1, 2, 3}, Dimension: 3})

	got, ok := cache.Get(hash)
	require.True(t, ok)
	got.Vector[0] = 99

	again, ok := cache.Get(hash)
	require.True(t, ok)
	assert.Equal(t, float32(1), again.Vector[0])
}

func TestCacheMiss(t *testing.T) {
	cache := NewCache(10)
	_, ok := cache.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Size())
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"mismatched dims", []float32{1, 0}, []float32{1}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestNormalizeVector(t *testing.T) {
	v := NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)

	zero := NormalizeVector([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestFactory(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewProvider(Config{Provider: ProviderLocal})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, ProviderLocal, p.Provider())

	_, err = NewProvider(Config{Provider: "bogus"})
	assert.ErrorIs(t, err, ErrNoProviderEnabled)
}

func TestLocalAnalyzeEmpty(t *testing.T) {
	provider, err := NewLocalProvider(nil)
	require.NoError(t, err)

	analysis, err := provider.Analyze(context.Background(), "لنت جلو تیگو ۸")
	require.NoError(t, err)
	assert.Empty(t, analysis.ExpandedTerms)
	assert.Empty(t, analysis.VehicleMake)
}
