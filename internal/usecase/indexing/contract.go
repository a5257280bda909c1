package indexing

import (
	"context"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
)

// Repository writes documents into one search index.
type Repository interface {
	Name() string
	Create(ctx context.Context, schema mapping.Schema) error
	Exists(ctx context.Context) (bool, error)
	Put(ctx context.Context, doc db.Document) error
	Delete(ctx context.Context, id string) error
}
