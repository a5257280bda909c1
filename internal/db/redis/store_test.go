package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
)

func testSchema() mapping.Schema {
	s := mapping.Schema{}
	s["portal_type"] = mapping.Scalar(mapping.String).WithIndex(mapping.NotAnalyzed)
	s["SearchableText"] = mapping.Scalar(mapping.String).WithIndex(mapping.Analyzed)
	s["modified"] = mapping.Scalar(mapping.Date)
	s["is_folderish"] = mapping.Scalar(mapping.Boolean)
	s["getObjPositionInParent"] = mapping.Scalar(mapping.Integer)
	s["path"] = mapping.Composite(map[string]mapping.Field{
		"path":  mapping.Scalar(mapping.String).WithIndex(mapping.Analyzed).WithAnalyzer(mapping.KeywordAnalyzer),
		"depth": mapping.Scalar(mapping.Integer),
	})
	return s
}

func testIndexSchema(t *testing.T) *indexSchema {
	t.Helper()
	is, err := newIndexSchema("catalog", "catalogsearch:catalog:", testSchema())
	if err != nil {
		t.Fatalf("newIndexSchema: %v", err)
	}
	return is
}

// storeWithSchema returns a store whose schema cache already holds the test schema.
func storeWithSchema(t *testing.T, c rueidis.Client) *Store {
	t.Helper()
	s := NewStoreForTest(c)
	s.schemas["catalog"] = testIndexSchema(t)
	return s
}

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestKeys(t *testing.T) {
	s := NewStoreForTest(nil)
	if got := s.docKey("catalog", "front-page"); got != "catalogsearch:catalog:front-page" {
		t.Errorf("docKey = %q", got)
	}
	if got := s.schemaKey("catalog"); got != "catalogsearch:schema:catalog" {
		t.Errorf("schemaKey = %q", got)
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"Index Already Exists", "index already exists", true},
		{"UNKNOWN INDEX NAME", "unknown index name", true},
		{"hello world", "world", true},
		{"short", "longer than input", false},
		{"", "", true},
	}
	for _, tc := range tests {
		got := containsIgnoreCase(tc.s, tc.sub)
		if got != tc.want {
			t.Errorf("containsIgnoreCase(%q, %q) = %v, want %v", tc.s, tc.sub, got, tc.want)
		}
	}
}

// --- kv.go tests ---

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "missing")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.get(context.Background(), "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestDel_ReportsExistence(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "k")).
		Return(mock.Result(mock.RedisInt64(0)))

	s := NewStoreForTest(c)
	existed, err := s.del(context.Background(), "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if existed {
		t.Error("expected false")
	}
}

func TestSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SET"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.set(context.Background(), "k", []byte("v")); !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var created []string
	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
				if cmd[0] != "FT.CREATE" {
					return false
				}
				created = cmd
				return true
			})).
			Return(mock.Result(mock.RedisString("OK"))),
		c.EXPECT().
			Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
				return cmd[0] == "SET" && cmd[1] == "catalogsearch:schema:catalog"
			})).
			Return(mock.Result(mock.RedisString("OK"))),
	)

	s := NewStoreForTest(c)
	if err := s.CreateIndex(context.Background(), "catalog", testSchema()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined := strings.Join(created, " ")
	for _, want := range []string{
		"FT.CREATE catalog ON JSON PREFIX 1 catalogsearch:catalog: SCHEMA",
		"$.SearchableText AS SearchableText TEXT",
		"$.getObjPositionInParent AS getObjPositionInParent NUMERIC",
		"$.modified AS modified NUMERIC SORTABLE",
		"$.path.depth AS path_depth NUMERIC",
		"$.path.path AS path_path TAG SEPARATOR \x1f CASESENSITIVE",
		"$.is_folderish AS is_folderish TAG",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("FT.CREATE args missing %q:\n%s", want, joined)
		}
	}
	if _, ok := s.schemas["catalog"]; !ok {
		t.Error("expected schema to be cached")
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	err := s.CreateIndex(context.Background(), "catalog", testSchema())
	if !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_InvalidSchema(t *testing.T) {
	s := NewStoreForTest(nil)
	if err := s.CreateIndex(context.Background(), "catalog", mapping.Schema{}); err == nil {
		t.Fatal("expected error for empty schema")
	}
	bad := mapping.Schema{"x": mapping.Scalar("geo")}
	if err := s.CreateIndex(context.Background(), "catalog", bad); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestDropIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.DROPINDEX", "catalog", "DD")).
			Return(mock.Result(mock.RedisString("OK"))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("DEL", "catalogsearch:schema:catalog")).
			Return(mock.Result(mock.RedisInt64(1))),
	)

	s := storeWithSchema(t, c)
	if err := s.DropIndex(context.Background(), "catalog"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.schemas["catalog"]; ok {
		t.Error("expected schema cache to be cleared")
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "catalog", "DD")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	err := s.DropIndex(context.Background(), "catalog")
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists_True(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "catalog")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("catalog"))))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "catalog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected true")
	}
}

func TestIndexExists_False(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "catalog")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "catalog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected false")
	}
}

func TestSchemaFor_ReloadsFromRedis(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	raw, err := json.Marshal(testSchema())
	if err != nil {
		t.Fatal(err)
	}
	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "catalogsearch:schema:catalog")).
		Return(mock.Result(mock.RedisString(string(raw)))).
		Times(1)

	s := NewStoreForTest(c)
	for i := 0; i < 2; i++ {
		is, err := s.schemaFor(context.Background(), "catalog")
		if err != nil {
			t.Fatalf("schemaFor: %v", err)
		}
		if _, ok := is.leaves["path.depth"]; !ok {
			t.Errorf("leaves = %v", is.leaves)
		}
	}
}

func TestSchemaFor_UnknownIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "catalogsearch:schema:missing")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Search(context.Background(), "missing", &db.Query{})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestBuildFieldArgs_Errors(t *testing.T) {
	if _, err := buildFieldArgs(&db.IndexField{Type: db.IndexFieldTag}); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := buildFieldArgs(&db.IndexField{Name: "x", Type: db.IndexFieldType(99)}); err == nil {
		t.Error("expected error for unknown type")
	}
	if _, err := buildCreateArgs(&db.IndexDefinition{Name: "x"}); err == nil {
		t.Error("expected error for no fields")
	}
}

// --- json.go tests ---

func TestPut_ConvertsValues(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var payload map[string]any
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			if cmd[0] != "JSON.SET" || cmd[1] != "catalogsearch:catalog:front-page" || cmd[2] != "$" {
				return false
			}
			return json.Unmarshal([]byte(cmd[3]), &payload) == nil
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := storeWithSchema(t, c)
	err := s.Put(context.Background(), "catalog", db.Document{ID: "front-page", Fields: map[string]any{
		"portal_type":  "Document",
		"modified":     "2012-01-01T00:00:00+00:00",
		"is_folderish": false,
		"path":         map[string]any{"path": "/plone/front-page", "depth": 2},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload["modified"] != float64(1325376000) {
		t.Errorf("modified = %#v, want unix seconds", payload["modified"])
	}
	if payload["is_folderish"] != "false" {
		t.Errorf("is_folderish = %#v, want tag string", payload["is_folderish"])
	}
	p, _ := payload["path"].(map[string]any)
	if p["path"] != "/plone/front-page" || p["depth"] != float64(2) {
		t.Errorf("path = %#v", payload["path"])
	}
}

func TestPut_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.SET"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := storeWithSchema(t, c)
	err := s.Put(context.Background(), "catalog", db.Document{ID: "x", Fields: map[string]any{}})
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "catalogsearch:catalog:gone")).
		Return(mock.Result(mock.RedisInt64(0)))

	s := NewStoreForTest(c)
	err := s.Delete(context.Background(), "catalog", "gone")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

// --- schema.go tests ---

func TestAttributeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"path.depth", "path_depth"},
		{"effectiveRange.effectiveRange1", "effectiveRange_effectiveRange1"},
		{"Title", "Title"},
		{"a-b", "a_b"},
	}
	for _, tc := range tests {
		if got := attributeName(tc.in); got != tc.want {
			t.Errorf("attributeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEngineRoundTrip(t *testing.T) {
	is := testIndexSchema(t)
	in := map[string]any{
		"modified":     "2013-06-01T12:00:00+02:00",
		"is_folderish": true,
		"portal_type":  "Folder",
		"path":         map[string]any{"path": "/plone/news", "depth": 2},
	}

	out := is.toEngine(in)
	if _, ok := in["modified"].(string); !ok {
		t.Fatal("toEngine must not modify its input")
	}
	if out["modified"] != int64(1370080800) {
		t.Errorf("modified = %#v", out["modified"])
	}

	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	back := is.fromEngine(decoded)
	if back["modified"] != "2013-06-01T10:00:00+00:00" {
		t.Errorf("modified = %#v, want UTC timestamp", back["modified"])
	}
	if back["is_folderish"] != true {
		t.Errorf("is_folderish = %#v", back["is_folderish"])
	}
}

func TestToEngine_DropsUnparsableDates(t *testing.T) {
	is := testIndexSchema(t)
	out := is.toEngine(map[string]any{"modified": "not a date"})
	if _, ok := out["modified"]; ok {
		t.Errorf("expected modified to be dropped, got %#v", out["modified"])
	}
}

// --- search.go tests ---

func TestBuildFilter(t *testing.T) {
	is := testIndexSchema(t)

	tests := []struct {
		name string
		expr filter.Expression
		want string
	}{
		{"empty", filter.Expression{}, "*"},
		{"tag", filter.Term("portal_type", "News Item"), `@portal_type:{News\ Item}`},
		{"bool", filter.Term("is_folderish", true), "@is_folderish:{true}"},
		{"numeric", filter.Term("getObjPositionInParent", 3), "@getObjPositionInParent:[3 3]"},
		{"date term", filter.Term("modified", "2012-01-01T00:00:00+00:00"), "@modified:[1325376000 1325376000]"},
		{"text term", filter.Term("SearchableText", "plone"), "@SearchableText:(plone)"},
		{"prefix", filter.Prefix("path.path", "/plone/news"), `@path_path:{\/plone\/news*}`},
		{"gt", filter.Range("path.depth", filter.GT, 2), "@path_depth:[(2 +inf]"},
		{"gte", filter.Range("path.depth", filter.GTE, 2), "@path_depth:[2 +inf]"},
		{"lt", filter.Range("path.depth", filter.LT, 4), "@path_depth:[-inf (4]"},
		{"lte", filter.Range("modified", filter.LTE, "2012-01-01T00:00:00+00:00"), "@modified:[-inf 1325376000]"},
		{"and", filter.And(
			filter.Term("portal_type", "Folder"),
			filter.Range("path.depth", filter.GTE, 1),
		), "(@portal_type:{Folder} @path_depth:[1 +inf])"},
		{"or", filter.Or(
			filter.Term("portal_type", "Folder"),
			filter.Term("portal_type", "Document"),
		), "(@portal_type:{Folder} | @portal_type:{Document})"},
		{"text", filter.Text("SearchableText", "hello-world"), `@SearchableText:(hello\-world)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := is.buildFilter(tt.expr)
			if err != nil {
				t.Fatalf("buildFilter: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildFilter_Errors(t *testing.T) {
	is := testIndexSchema(t)
	for _, expr := range []filter.Expression{
		filter.Term("unknown", "x"),
		filter.Range("modified", filter.GTE, "not a date"),
		filter.Range("path.depth", filter.GTE, "deep"),
		filter.Range("path.depth", filter.Op("between"), 1),
	} {
		if _, err := is.buildFilter(expr); err == nil {
			t.Errorf("buildFilter(%s): expected error", expr)
		}
	}
}

func TestBuildQuery(t *testing.T) {
	is := testIndexSchema(t)

	got, err := is.buildQuery(&db.Query{})
	if err != nil || got != "*" {
		t.Errorf("match all = %q, %v", got, err)
	}

	got, err = is.buildQuery(&db.Query{
		Filter:    filter.Term("portal_type", "Document"),
		Relevance: []filter.Expression{filter.Text("SearchableText", "plone")},
	})
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	if got != "@portal_type:{Document} @SearchableText:(plone)" {
		t.Errorf("got %q", got)
	}
}

func TestSearch_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.SEARCH", "catalog", "@portal_type:{Folder}",
			"RETURN", "1", "$", "LIMIT", "0", "10", "DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("catalogsearch:catalog:news"),
			mock.RedisArray(
				mock.RedisString("$"),
				mock.RedisString(`{"portal_type":"Folder","is_folderish":"true","modified":1370044800}`),
			),
		)))

	s := storeWithSchema(t, c)
	res, err := s.Search(context.Background(), "catalog", &db.Query{Filter: filter.Term("portal_type", "Folder")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 || len(res.Entries) != 1 {
		t.Fatalf("result = %+v", res)
	}
	e := res.Entries[0]
	if e.ID != "news" {
		t.Errorf("ID = %q", e.ID)
	}
	if e.Fields["is_folderish"] != true {
		t.Errorf("is_folderish = %#v", e.Fields["is_folderish"])
	}
	if e.Fields["modified"] != "2013-06-01T00:00:00+00:00" {
		t.Errorf("modified = %#v", e.Fields["modified"])
	}
}

func TestSearch_Scored(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[3] == "WITHSCORES"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("catalogsearch:catalog:item"),
			mock.RedisString("2.5"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"portal_type":"News Item"}`)),
			mock.RedisString("catalogsearch:catalog:front-page"),
			mock.RedisString("1.25"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"portal_type":"Document"}`)),
		)))

	s := storeWithSchema(t, c)
	res, err := s.Search(context.Background(), "catalog", &db.Query{
		Relevance: []filter.Expression{filter.Text("SearchableText", "plone")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(res.Entries))
	}
	if res.Entries[0].ID != "item" || res.Entries[0].Score != 2.5 {
		t.Errorf("first = %+v", res.Entries[0])
	}
	if res.Entries[1].Fields["portal_type"] != "Document" {
		t.Errorf("second = %+v", res.Entries[1])
	}
}

func TestSearch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := storeWithSchema(t, c)
	res, err := s.Search(context.Background(), "catalog", &db.Query{Limit: 5, Offset: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Entries) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestSearch_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := storeWithSchema(t, c)
	if _, err := s.Search(context.Background(), "catalog", &db.Query{}); !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestSearch_BadDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("catalogsearch:catalog:x"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString("{not json")),
		)))

	s := storeWithSchema(t, c)
	if _, err := s.Search(context.Background(), "catalog", &db.Query{}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEscapeQuery(t *testing.T) {
	input := `hello "world" @user {tag}`
	escaped := escapeQuery(input)
	expected := `hello \"world\" \@user \{tag\}`
	if escaped != expected {
		t.Errorf("expected %q, got %q", expected, escaped)
	}
}

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
