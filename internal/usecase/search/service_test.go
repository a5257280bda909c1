package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/adapter"
	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
)

// --- Mocks ---

type mockRepo struct {
	textSearchOK bool
	result       *db.SearchResult
	err          error
	called       bool
	lastQuery    *db.Query
}

func (m *mockRepo) Search(_ context.Context, q *db.Query) (*db.SearchResult, error) {
	m.called = true
	m.lastQuery = q
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &db.SearchResult{}, nil
	}
	return m.result, nil
}

func (m *mockRepo) SupportsTextSearch(context.Context) bool { return m.textSearchOK }

// --- Fixtures ---

func testCatalog(t *testing.T) *catalog.Static {
	t.Helper()
	cat, err := catalog.NewStatic(
		catalog.Definition{Name: "portal_type", Type: catalog.KindField},
		catalog.Definition{Name: "Subject", Type: catalog.KindKeyword},
		catalog.Definition{Name: "modified", Type: catalog.KindDate},
		catalog.Definition{Name: "SearchableText", Type: catalog.KindText, Attrs: []string{"Title", "Description"}},
		catalog.Definition{Name: "is_folderish", Type: catalog.KindBoolean},
		catalog.Definition{Name: "path", Type: catalog.KindPath},
		catalog.Definition{Name: "getObjPositionInParent", Type: catalog.KindPosition},
		catalog.Definition{Name: "effectiveRange", Type: catalog.KindDateRange, Since: "effective", Until: "expires"},
		catalog.Definition{Name: "Topic", Type: "TopicIndex"},
	)
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	return cat
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	return New(testCatalog(t), adapter.NewRegistry(nil), repo, nil)
}

func mustRequest(t *testing.T, query map[string]any, limit, offset int) request.Request {
	t.Helper()
	req, err := request.New(query, limit, offset)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return req
}

// --- Translate ---

func TestTranslate(t *testing.T) {
	tests := []struct {
		name          string
		query         map[string]any
		wantFilter    filter.Expression
		wantRelevance []filter.Expression
	}{
		{
			name:       "single term",
			query:      map[string]any{"portal_type": "Folder"},
			wantFilter: filter.Term("portal_type", "Folder"),
		},
		{
			name:  "list becomes or",
			query: map[string]any{"portal_type": []any{"Folder", "Document"}},
			wantFilter: filter.Or(
				filter.Term("portal_type", "Folder"),
				filter.Term("portal_type", "Document"),
			),
		},
		{
			name:  "several criteria are anded in name order",
			query: map[string]any{"portal_type": "Folder", "is_folderish": true},
			wantFilter: filter.And(
				filter.Term("is_folderish", true),
				filter.Term("portal_type", "Folder"),
			),
		},
		{
			name:          "text goes to relevance",
			query:         map[string]any{"SearchableText": "plone", "portal_type": "Document"},
			wantFilter:    filter.Term("portal_type", "Document"),
			wantRelevance: []filter.Expression{filter.Text("SearchableText", "plone")},
		},
		{
			name: "date min",
			query: map[string]any{"modified": map[string]any{
				"query": "2014-01-01T00:00:00+00:00", "range": "min",
			}},
			wantFilter: filter.Range("modified", filter.LTE, "2014-01-01T00:00:00+00:00"),
		},
		{
			name:  "unmapped index is skipped",
			query: map[string]any{"Topic": "anything", "portal_type": "Folder"},
			wantFilter: filter.Term("portal_type", "Folder"),
		},
		{
			name:  "empty argument imposes nothing",
			query: map[string]any{"portal_type": "", "Subject": []any{}},
		},
		{
			name: "no criteria",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, nil)
			tr, err := svc.Translate(mustRequest(t, tt.query, 0, 0))
			if err != nil {
				t.Fatalf("Translate: %v", err)
			}
			if !tr.Filter.Equal(tt.wantFilter) {
				t.Errorf("filter = %s, want %s", tr.Filter, tt.wantFilter)
			}
			if len(tr.Relevance) != len(tt.wantRelevance) {
				t.Fatalf("relevance = %v, want %v", tr.Relevance, tt.wantRelevance)
			}
			for i := range tr.Relevance {
				if !tr.Relevance[i].Equal(tt.wantRelevance[i]) {
					t.Errorf("relevance[%d] = %s, want %s", i, tr.Relevance[i], tt.wantRelevance[i])
				}
			}
		})
	}
}

func TestTranslate_UnknownIndex(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Translate(mustRequest(t, map[string]any{"nope": 1}, 0, 0))
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestTranslation_IsEmpty(t *testing.T) {
	if !(Translation{}).IsEmpty() {
		t.Error("zero translation should be empty")
	}
	tr := Translation{Relevance: []filter.Expression{filter.Text("SearchableText", "x")}}
	if tr.IsEmpty() {
		t.Error("relevance-only translation is not empty")
	}
}

// --- Search ---

func TestSearch_PassesPaging(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(t, repo)

	_, err := svc.Search(context.Background(), mustRequest(t, map[string]any{"portal_type": "Folder"}, 5, 10))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if repo.lastQuery.Limit != 5 || repo.lastQuery.Offset != 10 {
		t.Errorf("limit=%d offset=%d", repo.lastQuery.Limit, repo.lastQuery.Offset)
	}
	if !repo.lastQuery.Filter.Equal(filter.Term("portal_type", "Folder")) {
		t.Errorf("filter = %s", repo.lastQuery.Filter)
	}
}

func TestSearch_TextNotSupported(t *testing.T) {
	repo := &mockRepo{textSearchOK: false}
	svc := newTestService(t, repo)

	_, err := svc.Search(context.Background(), mustRequest(t, map[string]any{"SearchableText": "plone"}, 0, 0))
	if !errors.Is(err, domain.ErrTextSearchNotSupported) {
		t.Fatalf("expected ErrTextSearchNotSupported, got %v", err)
	}
	if repo.called {
		t.Error("repository must not be queried")
	}
}

func TestSearch_InvalidQuery(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(t, repo)

	_, err := svc.Search(context.Background(), mustRequest(t, map[string]any{"nope": 1}, 0, 0))
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSearch_RepoError(t *testing.T) {
	boom := errors.New("engine down")
	svc := newTestService(t, &mockRepo{err: boom})

	if _, err := svc.Search(context.Background(), mustRequest(t, nil, 0, 0)); !errors.Is(err, boom) {
		t.Errorf("expected wrapped repo error, got %v", err)
	}
}

func TestSearch_NoRepository(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Search(context.Background(), mustRequest(t, nil, 0, 0)); err == nil {
		t.Fatal("expected error")
	}
}

func TestSearch_DecodesHits(t *testing.T) {
	repo := &mockRepo{result: &db.SearchResult{
		Total: 7,
		Entries: []db.SearchEntry{{
			ID:    "news",
			Score: 1.5,
			Fields: map[string]any{
				"portal_type": "Folder",
				"modified":    "2013-06-01T10:00:00+00:00",
				"path":        map[string]any{"path": "/plone/news", "depth": 2},
			},
		}, {
			ID: "bare",
		}},
	}}
	svc := newTestService(t, repo)

	page, err := svc.Search(context.Background(), mustRequest(t, nil, 0, 0))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.Total != 7 || len(page.Hits) != 2 {
		t.Fatalf("page = %+v", page)
	}

	hit := page.Hits[0]
	if hit.ID() != "news" || hit.Score() != 1.5 {
		t.Errorf("hit = %s/%f", hit.ID(), hit.Score())
	}
	values := hit.Values()
	if values["portal_type"] != "Folder" {
		t.Errorf("portal_type = %#v", values["portal_type"])
	}
	want := time.Date(2013, 6, 1, 10, 0, 0, 0, time.UTC)
	if got, ok := values["modified"].(time.Time); !ok || !got.Equal(want) {
		t.Errorf("modified = %#v", values["modified"])
	}
	if values["path"] != "/plone/news" {
		t.Errorf("path = %#v", values["path"])
	}
	if _, ok := values["Topic"]; ok {
		t.Error("unmapped index must not be decoded")
	}

	bare := page.Hits[1].Values()
	if bare["portal_type"] != "" {
		t.Errorf("missing field decoded as %#v", bare["portal_type"])
	}
	if bare["path"] != nil {
		t.Errorf("missing path decoded as %#v", bare["path"])
	}
}
