package db

import "github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"

// Document is one catalog object rendered as engine fields.
// Composite values are nested maps keyed by property name.
type Document struct {
	ID     string
	Fields map[string]any
}

// Query combines a boolean filter with optional scored text clauses.
type Query struct {
	Filter    filter.Expression
	Relevance []filter.Expression
	Limit     int
	Offset    int
}

// IsMatchAll reports whether the query matches every document.
func (q *Query) IsMatchAll() bool {
	return q.Filter.IsEmpty() && len(q.Relevance) == 0
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	ID     string
	Score  float64
	Fields map[string]any
}
