// Package searcher orchestrates the search pipeline. Every query runs the
// deterministic base leg (exact code, synonym, fuzzy) and, when an AI
// provider is configured, a concurrent AI leg (embedding similarity and
// query analysis). The legs join, the ranker merges and orders candidates,
// and an LRU keyed on the catalog snapshot version caches responses. AI
// failures degrade the response to base results; they never fail a search.
package searcher
