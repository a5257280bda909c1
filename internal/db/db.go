package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
)

// Store is the search engine facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	IndexManager
	DocumentStore
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks engine connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexManager provides search index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, name string, schema mapping.Schema) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SupportsTextSearch(ctx context.Context) bool
}

// DocumentStore writes and removes indexed documents.
type DocumentStore interface {
	Put(ctx context.Context, index string, doc Document) error
	Delete(ctx context.Context, index, id string) error
}

// Searcher runs filter and relevance queries over an index.
type Searcher interface {
	Search(ctx context.Context, index string, q *Query) (*SearchResult, error)
}
