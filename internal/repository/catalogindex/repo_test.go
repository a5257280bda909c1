package catalogindex

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
)

func TestCreate(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotName string
	ms.createFn = func(_ context.Context, name string, _ mapping.Schema) error {
		gotName = name
		return nil
	}
	schema := mapping.Schema{"Title": mapping.Scalar(mapping.String)}
	if err := repo.Create(context.Background(), schema); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotName != "catalog" {
		t.Errorf("index name = %q", gotName)
	}
}

func TestCreate_AlreadyExists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createFn = func(context.Context, string, mapping.Schema) error { return db.ErrIndexExists }

	err := repo.Create(context.Background(), mapping.Schema{})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDrop_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.dropFn = func(context.Context, string) error { return db.ErrIndexNotFound }

	if err := repo.Drop(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExists_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	boom := errors.New("conn refused")
	ms.existsFn = func(context.Context, string) (bool, error) { return false, boom }

	if _, err := repo.Exists(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestPut(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got db.Document
	ms.putFn = func(_ context.Context, index string, doc db.Document) error {
		if index != "catalog" {
			t.Errorf("index = %q", index)
		}
		got = doc
		return nil
	}
	doc := db.Document{ID: "front-page", Fields: map[string]any{"Title": "Welcome"}}
	if err := repo.Put(context.Background(), doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "front-page" || got.Fields["Title"] != "Welcome" {
		t.Errorf("stored %+v", got)
	}
}

func TestPut_MissingIndex(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.putFn = func(context.Context, string, db.Document) error { return db.ErrIndexNotFound }

	err := repo.Put(context.Background(), db.Document{ID: "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_Errors(t *testing.T) {
	tests := []struct {
		name  string
		store error
		want  error
	}{
		{"missing document", db.ErrKeyNotFound, domain.ErrDocumentNotFound},
		{"missing index", db.ErrIndexNotFound, domain.ErrNotFound},
		{"store failure", db.ErrClosed, db.ErrClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, ms := newTestRepo(t)
			ms.deleteFn = func(context.Context, string, string) error { return tt.store }

			if err := repo.Delete(context.Background(), "x"); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchFn = func(_ context.Context, _ string, q *db.Query) (*db.SearchResult, error) {
		if q.Limit != 5 {
			t.Errorf("limit = %d", q.Limit)
		}
		return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{{ID: "news"}}}, nil
	}
	res, err := repo.Search(context.Background(), &db.Query{Filter: filter.Term("portal_type", "Folder"), Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 || res.Entries[0].ID != "news" {
		t.Errorf("result = %+v", res)
	}
}

func TestSupportsTextSearch(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.textOK = true
	if !repo.SupportsTextSearch(context.Background()) {
		t.Error("expected true")
	}
}
