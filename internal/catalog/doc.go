// Package catalog persists the parts catalog in SQLite and serves it to the
// search core as immutable in-memory snapshots.
//
// Storage is the write side: parts and synonyms with schema migrations.
// Snapshot is the read side: normalized text, an OEM-code index, and alias
// postings built once per refresh. Holder swaps snapshots atomically so
// searches never block on a rebuild, and ChangeSignal optionally shortens
// refresh latency with Redis pub/sub.
package catalog
