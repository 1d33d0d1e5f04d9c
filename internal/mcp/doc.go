// Package mcp exposes the part search engine over the Model Context
// Protocol on stdio.
//
// Tools:
//
//   - search_parts: free-text catalog search. Accepts Persian, Latin, or
//     mixed-script queries, OEM codes with or without separators, and typos.
//     Optional filters narrow by category and vehicle; disable_ai forces the
//     deterministic strategies only.
//
//   - search_parts_bulk: one query per line, for pasted order lists. Every
//     input line comes back with its 1-based line number, so blank and
//     unmatched lines keep their position.
//
//   - catalog_status: storage counts, the active snapshot version and age,
//     and which AI provider (if any) is configured.
//
//   - refresh_catalog: rebuilds the in-memory snapshot from storage without
//     waiting for the TTL or a change signal.
//
// Handlers validate arguments, translate engine errors into MCP error codes,
// and return indented JSON text results.
package mcp
