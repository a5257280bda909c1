package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("test-idx").
		Prefix("doc:").
		Tag("category").
		Numeric("price").
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name != "test-idx" {
		t.Errorf("name = %q, want test-idx", idx.Name)
	}
	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Name != "category" || idx.Fields[0].Type != IndexFieldTag {
		t.Errorf("field[0] = %+v, want category TAG", idx.Fields[0])
	}
	if idx.Fields[1].Name != "price" || idx.Fields[1].Type != IndexFieldNumeric {
		t.Errorf("field[1] = %+v, want price NUMERIC", idx.Fields[1])
	}
}

func TestIndexBuilder_JSONAliases(t *testing.T) {
	idx := NewIndex("catalog").
		OnJSON().
		Prefix("catalog:").
		TagWithOpts("$.portal_type", "\x1f", true).As("portal_type").
		Numeric("$.path.depth").As("path_depth").Sortable().
		Text("$.SearchableText").As("SearchableText").
		MustBuild()

	if idx.StorageType != StorageJSON {
		t.Errorf("storage = %q, want JSON", idx.StorageType)
	}

	f, ok := idx.Field("path_depth")
	if !ok {
		t.Fatal("expected path_depth field")
	}
	if f.Name != "$.path.depth" || f.Type != IndexFieldNumeric || !f.Sortable {
		t.Errorf("path_depth = %+v", f)
	}

	tag, _ := idx.Field("portal_type")
	if !tag.TagCaseSensitive || tag.TagSeparator != "\x1f" {
		t.Errorf("portal_type = %+v", tag)
	}

	if _, ok := idx.Field("$.portal_type"); ok {
		t.Error("aliased field must be addressed by alias")
	}
}

func TestIndexBuilder_AsWithoutField(t *testing.T) {
	b := NewIndex("empty").As("ignored")
	if _, err := b.Build(); err == nil {
		t.Fatal("expected error for index without fields")
	}
}

func TestIndexBuilder_OnHash(t *testing.T) {
	idx := NewIndex("h").OnJSON().OnHash().Tag("x").MustBuild()
	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *IndexBuilder
		wantErr string
	}{
		{"empty name", NewIndex("").Tag("x"), "index name is required"},
		{"bad name", NewIndex("bad name").Tag("x"), "invalid characters"},
		{"no fields", NewIndex("ok"), "at least one field"},
		{"duplicate", NewIndex("ok").Tag("x").Numeric("x"), "duplicate field name: x"},
		{"duplicate alias", NewIndex("ok").Tag("$.a").As("a").Numeric("$.b").As("a"), "duplicate field name: a"},
		{"empty field", NewIndex("ok").Tag(""), "field name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestIndexBuilder_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewIndex("").MustBuild()
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("catalog").
		OnJSON().
		Prefix("catalog:").
		TagWithOpts("$.UID", "\x1f", true).As("UID").
		Numeric("$.modified").As("modified").Sortable().
		Text("$.SearchableText").As("SearchableText").
		MustBuild()

	want := "FT.CREATE catalog ON JSON PREFIX catalog: SCHEMA " +
		"$.UID AS UID TAG $.modified AS modified NUMERIC SORTABLE $.SearchableText AS SearchableText TEXT"
	if got := idx.String(); got != want {
		t.Errorf("String() =\n%q\nwant\n%q", got, want)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"abc", "a-b_c:d", "Catalog01"}
	for _, s := range valid {
		if !IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = false", s)
		}
	}
	invalid := []string{"", "a b", "a.b", "a/b"}
	for _, s := range invalid {
		if IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = true", s)
		}
	}
}

func TestError(t *testing.T) {
	err := &Error{Op: OpSearch, Err: ErrIndexNotFound}
	if err.Error() != "FT.SEARCH: db: index not found" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Unwrap() != ErrIndexNotFound {
		t.Error("Unwrap mismatch")
	}
}

func TestQueryIsMatchAll(t *testing.T) {
	if !(&Query{}).IsMatchAll() {
		t.Error("empty query should match all")
	}
}
