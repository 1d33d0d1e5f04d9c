package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrProviderFailed    = errors.New("ai provider failed")
	ErrEmptyText         = errors.New("text cannot be empty")
	ErrBatchTooLarge     = errors.New("batch size exceeds limit")
	ErrNoProviderEnabled = errors.New("no ai provider configured")
)

// Embedding is a vector embedding with provenance metadata
type Embedding struct {
	Vector    []float32
	Dimension int
	Provider  string
	Model     string
	Hash      string // content hash for caching
}

// Analysis is the structured reading of a raw part query: what the buyer is
// asking for, which vehicle it concerns, and alternative phrasings worth
// matching. Every field is optional; an empty Analysis is a valid answer.
type Analysis struct {
	Intent        string   `json:"intent"`
	Category      string   `json:"category"`
	VehicleMake   string   `json:"vehicle_make"`
	VehicleModel  string   `json:"vehicle_model"`
	ExpandedTerms []string `json:"expanded_terms"`
}

// Provider generates embeddings and query analyses. Implementations must be
// safe for concurrent use; the search core calls them from multiple searches
// at once.
type Provider interface {
	// Embed generates an embedding for a single text
	Embed(ctx context.Context, text string) (*Embedding, error)

	// EmbedBatch generates embeddings for multiple texts in one call
	EmbedBatch(ctx context.Context, texts []string) ([]*Embedding, error)

	// Analyze extracts intent, vehicle entities, and expansion terms from
	// a raw query
	Analyze(ctx context.Context, query string) (*Analysis, error)

	// Provider returns the provider name
	Provider() string

	// Model returns the embedding model name
	Model() string

	// Dimension returns the embedding dimension
	Dimension() int

	// Close releases provider resources
	Close() error
}

// Cache is an in-memory LRU of embeddings keyed by content hash
type Cache struct {
	cache *lru.Cache[string, *Embedding]
}

// NewCache creates an embedding cache with LRU eviction
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 10000
	}
	cache, err := lru.New[string, *Embedding](maxLen)
	if err != nil {
		cache, _ = lru.New[string, *Embedding](10000)
	}
	return &Cache{cache: cache}
}

// Get retrieves a deep copy of a cached embedding so caller mutations can't
// corrupt the cached vector
func (c *Cache) Get(hash string) (*Embedding, bool) {
	emb, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}
	vectorCopy := make([]float32, len(emb.Vector))
	copy(vectorCopy, emb.Vector)
	return &Embedding{
		Vector:    vectorCopy,
		Dimension: emb.Dimension,
		Provider:  emb.Provider,
		Model:     emb.Model,
		Hash:      emb.Hash,
	}, true
}

// Set stores an embedding; LRU eviction is automatic
func (c *Cache) Set(hash string, emb *Embedding) {
	c.cache.Add(hash, emb)
}

// Size returns the current cache size
func (c *Cache) Size() int {
	return c.cache.Len()
}

// Clear empties the cache
func (c *Cache) Clear() {
	c.cache.Purge()
}

// ComputeHash computes the SHA-256 cache key for a text
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

func validateTexts(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("%w: no texts provided", ErrInvalidInput)
	}
	for i, text := range texts {
		if text == "" {
			return fmt.Errorf("%w: text at index %d is empty", ErrInvalidInput, i)
		}
	}
	return nil
}
