package catalogindex

import (
	"context"
	"testing"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createFn func(ctx context.Context, name string, schema mapping.Schema) error
	dropFn   func(ctx context.Context, name string) error
	existsFn func(ctx context.Context, name string) (bool, error)
	putFn    func(ctx context.Context, index string, doc db.Document) error
	deleteFn func(ctx context.Context, index, id string) error
	searchFn func(ctx context.Context, index string, q *db.Query) (*db.SearchResult, error)
	textOK   bool
}

func (m *mockStore) CreateIndex(ctx context.Context, name string, schema mapping.Schema) error {
	if m.createFn != nil {
		return m.createFn(ctx, name, schema)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropFn != nil {
		return m.dropFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SupportsTextSearch(_ context.Context) bool { return m.textOK }

func (m *mockStore) Put(ctx context.Context, index string, doc db.Document) error {
	if m.putFn != nil {
		return m.putFn(ctx, index, doc)
	}
	return nil
}

func (m *mockStore) Delete(ctx context.Context, index, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, index, id)
	}
	return nil
}

func (m *mockStore) Search(ctx context.Context, index string, q *db.Query) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, index, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "catalog"), ms
}
