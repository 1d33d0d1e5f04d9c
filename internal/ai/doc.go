// Package ai abstracts the optional AI layer: embedding generation for
// semantic matching and structured query analysis for entity extraction and
// expansion. Providers are pluggable; the OpenAI provider talks to the real
// API with retry and caching, the local provider is a deterministic offline
// stand-in. The search core treats every provider failure as "no AI", never
// as a search failure.
package ai
