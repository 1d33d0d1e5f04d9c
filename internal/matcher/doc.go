// Package matcher implements the base matching strategies: exact OEM-code
// lookup, weighted synonym coverage, and Levenshtein fuzzy matching. Each
// matcher reads a catalog snapshot and emits raw-scored candidates; combining
// and ranking them is the scorer's job.
package matcher
