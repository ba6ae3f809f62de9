// Package depgraph is a directed view of a resolved catalog: one node per
// discipline and an edge from each prerequisite to the discipline requiring
// it. Special atoms contribute no edges. It answers neighbourhood queries and
// detects prerequisite cycles, which the catalog should never contain but
// occasionally does.
package depgraph
