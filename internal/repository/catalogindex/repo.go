// Package catalogindex binds one named search index of a db.Store and maps store errors to domain errors.
package catalogindex

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
)

// store is the consumer interface for the search engine (ISP).
type store interface {
	CreateIndex(ctx context.Context, name string, schema mapping.Schema) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SupportsTextSearch(ctx context.Context) bool
	Put(ctx context.Context, index string, doc db.Document) error
	Delete(ctx context.Context, index, id string) error
	Search(ctx context.Context, index string, q *db.Query) (*db.SearchResult, error)
}

// Repo implements the indexing and search usecase repositories over one index.
type Repo struct {
	store store
	name  string
}

// New creates a repository for the search index called name.
func New(s store, name string) *Repo {
	return &Repo{store: s, name: name}
}

// Name returns the search index name.
func (r *Repo) Name() string { return r.name }

// Create creates the search index with schema.
func (r *Repo) Create(ctx context.Context, schema mapping.Schema) error {
	if err := r.store.CreateIndex(ctx, r.name, schema); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("search index %q: %w", r.name, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("create index %s: %w", r.name, err)
	}
	return nil
}

// Drop removes the search index and its documents.
func (r *Repo) Drop(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.name); err != nil {
		return r.mapErr("drop index", err)
	}
	return nil
}

// Exists reports whether the search index exists.
func (r *Repo) Exists(ctx context.Context) (bool, error) {
	ok, err := r.store.IndexExists(ctx, r.name)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", r.name, err)
	}
	return ok, nil
}

// SupportsTextSearch reports whether relevance queries can run.
func (r *Repo) SupportsTextSearch(ctx context.Context) bool {
	return r.store.SupportsTextSearch(ctx)
}

// Put writes doc, replacing any previous version.
func (r *Repo) Put(ctx context.Context, doc db.Document) error {
	if err := r.store.Put(ctx, r.name, doc); err != nil {
		return r.mapErr("put "+doc.ID, err)
	}
	return nil
}

// Delete removes the document id.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, r.name, id); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return fmt.Errorf("document %q: %w", id, domain.ErrDocumentNotFound)
		}
		return r.mapErr("delete "+id, err)
	}
	return nil
}

// Search runs q against the index.
func (r *Repo) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	res, err := r.store.Search(ctx, r.name, q)
	if err != nil {
		return nil, r.mapErr("search", err)
	}
	return res, nil
}

func (r *Repo) mapErr(op string, err error) error {
	if errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("search index %q: %w", r.name, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
