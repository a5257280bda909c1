package adapter

import (
	"encoding/json"
	"reflect"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
)

// base carries the default behavior every kind starts from.
type base struct {
	kind    catalog.Kind
	catalog catalog.Catalog
	index   catalog.Index
	logger  *zap.Logger
}

func (b base) Kind() catalog.Kind { return b.kind }

func (b base) Index() catalog.Index { return b.index }

func (b base) BuildMapping(string) mapping.Field {
	return mapping.Scalar(mapping.String).WithIndex(mapping.NotAnalyzed).Stored(false)
}

func (b base) ExtractValue(obj catalog.Object) (any, error) {
	return b.datum(obj), nil
}

// datum reads the first source attribute through the index's own extractor.
func (b base) datum(obj catalog.Object) any {
	attr := ""
	if names := b.index.SourceNames(); len(names) > 0 {
		attr = names[0]
	}

	ext, ok := b.index.(catalog.DatumExtractor)
	if !ok {
		b.logger.Info("catalog object was passed bad index object",
			zap.String("index", b.index.ID()),
			zap.String("kind", string(b.index.Kind())),
		)
		return nil
	}

	v, err := ext.Datum(obj, attr)
	if err != nil {
		b.logger.Info("index datum extraction failed",
			zap.String("index", b.index.ID()),
			zap.String("attribute", attr),
			zap.Error(err),
		)
		return nil
	}
	if catalog.IsMissing(v) {
		return nil
	}
	return v
}

func (b base) DecodeStored(name string, stored map[string]any) any {
	v := stored[name]
	if isFalsy(v) {
		return ""
	}
	return v
}

func (b base) TranslateQuery(name string, arg any) (Query, bool) {
	v := normalize(arg)
	if v == nil || v == "" {
		return Query{}, false
	}
	if items, ok := asList(v); ok {
		if len(items) == 0 {
			return Query{}, false
		}
		terms := make([]filter.Expression, len(items))
		for i, item := range items {
			terms[i] = filter.Term(name, item)
		}
		return Query{Filter: filter.Or(terms...)}, true
	}
	return Query{Filter: filter.Term(name, v)}, true
}

// normalize unwraps a {"query": v} record to v.
func normalize(arg any) any {
	if m, ok := arg.(map[string]any); ok {
		if q, ok := m["query"]; ok {
			return q
		}
	}
	return arg
}

// asList reports whether v is a sequence and returns its elements.
// Strings and byte slices are scalars.
func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case nil, string, []byte:
		return nil, false
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// isFalsy reports whether v carries no information: nil, Missing, zero scalars
// and empty collections.
func isFalsy(v any) bool {
	if v == nil || catalog.IsMissing(v) {
		return true
	}
	switch x := v.(type) {
	case string:
		return x == ""
	case bool:
		return !x
	case json.Number:
		return x == "" || x == "0"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// intValue reads an integer query key, accepting JSON numbers.
func intValue(v any, def int) int {
	switch x := v.(type) {
	case int:
		return x
	case int32:
		return int(x)
	case int64:
		return int(x)
	case float64:
		return int(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n)
		}
	}
	return def
}
