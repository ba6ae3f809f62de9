// Package shard runs the first phase of a harvest: every catalog group is
// fetched and parsed as an independent task, and the per-group results are
// merged into one sealed catalog.Index by a single owner once all tasks have
// finished.
//
// Tasks share no mutable state. The first failing task cancels the rest and
// the whole ingestion fails; a partially merged index is never returned.
package shard
