// Package storage persists navigation history snapshots per session,
// so a reloaded tab restores its full back/forward stack instead of
// starting over.
//
// Two Store implementations are provided: MemoryStore for tests and
// single-process use, and S3Store for durable cross-restart storage.
// Restore wraps the load path with the fallback every host app needs,
// synthesizing a fresh one-entry history from a default URL when
// nothing usable was saved.
package storage
