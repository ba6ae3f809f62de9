// Package catalog holds the discipline records and the in-memory index that
// maps discipline codes to them.
//
// An Index goes through two phases. While shards are being merged it is owned
// by a single coordinator and grows through Merge. Once every shard is merged
// the coordinator calls Seal; from then on the set of codes is fixed and the
// index may be read concurrently. The only mutation allowed after sealing is
// the accumulation of required-by edges, which is guarded per discipline.
package catalog
