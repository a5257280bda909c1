package redis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain/datetime"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
)

// tagSeparator keeps multi-word keywords ("News Item") as single tags.
const tagSeparator = "\x1f"

type leafKind int

const (
	leafTag leafKind = iota
	leafText
	leafNumeric
	leafDate
	leafBool
)

type leaf struct {
	path []string
	attr string
	kind leafKind
}

// indexSchema ties a catalog schema to its FT index definition.
type indexSchema struct {
	schema mapping.Schema
	def    *db.IndexDefinition
	leaves map[string]leaf
}

func newIndexSchema(name, prefix string, schema mapping.Schema) (*indexSchema, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	b := db.NewIndex(name).OnJSON().Prefix(prefix)
	leaves := make(map[string]leaf)
	for _, l := range schema.Leaves() {
		lf := leaf{
			path: strings.Split(l.Path, "."),
			attr: attributeName(l.Path),
			kind: kindOf(l.Field),
		}
		jsonPath := "$." + l.Path

		switch lf.kind {
		case leafText:
			b.Text(jsonPath).As(lf.attr)
		case leafNumeric:
			b.Numeric(jsonPath).As(lf.attr)
		case leafDate:
			b.Numeric(jsonPath).As(lf.attr).Sortable()
		default:
			b.TagWithOpts(jsonPath, tagSeparator, true).As(lf.attr)
		}
		leaves[l.Path] = lf
	}

	def, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &indexSchema{schema: schema, def: def, leaves: leaves}, nil
}

func kindOf(f mapping.Field) leafKind {
	switch f.Type {
	case mapping.Date:
		return leafDate
	case mapping.Integer:
		return leafNumeric
	case mapping.Boolean:
		return leafBool
	}
	if f.IsAnalyzed() && f.Analyzer != mapping.KeywordAnalyzer {
		return leafText
	}
	return leafTag
}

// attributeName turns a dotted field path into an FT attribute ("path.depth" -> "path_depth").
func attributeName(path string) string {
	var sb strings.Builder
	for _, r := range path {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if isAlnum || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// toEngine converts document values to what the FT index can compare:
// dates become Unix seconds, booleans and tag scalars become strings.
func (is *indexSchema) toEngine(fields map[string]any) map[string]any {
	out := copyTree(fields)
	for _, lf := range is.leaves {
		v, ok := getPath(out, lf.path)
		if !ok || v == nil {
			continue
		}
		switch lf.kind {
		case leafDate:
			t, ok := datetime.ToTime(v)
			if !ok {
				deletePath(out, lf.path)
				continue
			}
			setPath(out, lf.path, t.Unix())
		case leafBool, leafTag:
			setPath(out, lf.path, tagValue(v))
		}
	}
	return out
}

// fromEngine reverses toEngine on a decoded document.
func (is *indexSchema) fromEngine(fields map[string]any) map[string]any {
	for _, lf := range is.leaves {
		v, ok := getPath(fields, lf.path)
		if !ok || v == nil {
			continue
		}
		switch lf.kind {
		case leafDate:
			if secs, ok := v.(float64); ok {
				setPath(fields, lf.path, datetime.Format(time.Unix(int64(secs), 0).UTC()))
			}
		case leafBool:
			if s, ok := v.(string); ok {
				if b, err := strconv.ParseBool(s); err == nil {
					setPath(fields, lf.path, b)
				}
			}
		}
	}
	return fields
}

func tagValue(v any) any {
	switch x := v.(type) {
	case string:
		return x
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = fmt.Sprint(item)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = item
		}
		return out
	default:
		return fmt.Sprint(x)
	}
}

func copyTree(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			out[k] = copyTree(sub)
			continue
		}
		out[k] = v
	}
	return out
}

func getPath(m map[string]any, path []string) (any, bool) {
	cur := m
	for i, seg := range path {
		v, ok := cur[seg]
		if !ok {
			return nil, false
		}
		if i == len(path)-1 {
			return v, true
		}
		if cur, ok = v.(map[string]any); !ok {
			return nil, false
		}
	}
	return nil, false
}

func setPath(m map[string]any, path []string, v any) {
	cur := m
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			return
		}
		cur = next
	}
	cur[path[len(path)-1]] = v
}

func deletePath(m map[string]any, path []string) {
	cur := m
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			return
		}
		cur = next
	}
	delete(cur, path[len(path)-1])
}
