package search

import (
	"context"

	"github.com/kailas-cloud/catalogsearch/internal/db"
)

// Repository runs store queries against the search index.
type Repository interface {
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
	SupportsTextSearch(ctx context.Context) bool
}
