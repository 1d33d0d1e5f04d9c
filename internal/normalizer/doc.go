// Package normalizer canonicalizes free-text part queries before matching.
//
// Queries arrive in Persian, Latin, or a mix of both, often typed with
// Persian keyboard digits and Arabic letter variants. Every matching strategy
// operates on the output of Normalize, so the same function is applied to
// catalog field values at snapshot build time, so matching is always
// normalized-to-normalized.
//
// The pipeline is: digit folding (۰-۹ and ٠-٩ to 0-9), Arabic-to-Persian
// letter folding, combining-mark removal, ZWNJ handling, lowercasing, and
// punctuation tokenization. Normalize is idempotent and never fails.
package normalizer
