package searcher

import (
	"crypto/sha256"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/partkade/partsearch/pkg/types"
)

const (
	defaultCacheSize = 1000
	defaultCacheTTL  = 60 * time.Second
)

// cacheEntry is a cached response with expiration
type cacheEntry struct {
	response  SearchResponse
	expiresAt time.Time
}

// queryCache is an LRU of search responses. Keys include the snapshot
// version, so a catalog refresh invalidates every prior entry without an
// explicit flush.
type queryCache struct {
	cache *lru.Cache[[32]byte, *cacheEntry]
}

func newQueryCache(size int) *queryCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[[32]byte, *cacheEntry](size)
	if err != nil {
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	return &queryCache{cache: cache}
}

// cacheKey hashes the normalized query, filters, limit, and snapshot version
func cacheKey(normText string, filters *types.Filters, limit int, version int64) [32]byte {
	var cat, vmake, vmodel string
	if filters != nil {
		cat, vmake, vmodel = filters.Category, filters.VehicleMake, filters.VehicleModel
	}
	return sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s|%d|%d", normText, cat, vmake, vmodel, limit, version)))
}

func (c *queryCache) get(key [32]byte) (*SearchResponse, bool) {
	entry, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.cache.Remove(key)
		return nil, false
	}
	// Copy the struct and its slices so callers can't mutate the cached
	// response through a returned hit
	resp := entry.response
	resp.Results = append([]types.RankedResult(nil), entry.response.Results...)
	resp.Warnings = append([]string(nil), entry.response.Warnings...)
	return &resp, true
}

func (c *queryCache) set(key [32]byte, resp *SearchResponse, ttl time.Duration) {
	// The response handed back to the caller keeps its own slices; the
	// cached entry gets independent copies
	entry := &cacheEntry{
		response:  *resp,
		expiresAt: time.Now().Add(ttl),
	}
	entry.response.Results = append([]types.RankedResult(nil), resp.Results...)
	entry.response.Warnings = append([]string(nil), resp.Warnings...)
	c.cache.Add(key, entry)
}
