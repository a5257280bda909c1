package adapter

import (
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
)

// textAdapter indexes analyzed text gathered from one or more attributes.
type textAdapter struct{ base }

func (a textAdapter) BuildMapping(string) mapping.Field {
	return mapping.Scalar(mapping.String).WithIndex(mapping.Analyzed).Stored(false)
}

func (a textAdapter) attributes() []string {
	src, ok := a.index.(catalog.TextSource)
	if !ok {
		return a.index.SourceNames()
	}
	if attrs := src.IndexedAttrs(); len(attrs) > 0 {
		return attrs
	}
	if f := src.FieldName(); f != "" {
		return []string{f}
	}
	return a.index.SourceNames()
}

// ExtractValue joins every string found in the indexed attributes with newlines.
func (a textAdapter) ExtractValue(obj catalog.Object) (any, error) {
	var texts []string
	for _, attr := range a.attributes() {
		v, ok, err := catalog.Resolve(obj, attr)
		if err != nil {
			a.logger.Debug("skipping text attribute",
				zap.String("index", a.index.ID()),
				zap.String("attribute", attr),
				zap.Error(err),
			)
			continue
		}
		if !ok || isFalsy(v) {
			continue
		}

		if items, ok := asList(v); ok {
			for _, item := range items {
				if s, ok := item.(string); ok {
					texts = append(texts, s)
				}
			}
			continue
		}
		if s, ok := v.(string); ok {
			texts = append(texts, s)
		}
	}

	if len(texts) == 0 {
		return nil, nil
	}
	return strings.Join(texts, "\n"), nil
}

func (a textAdapter) TranslateQuery(name string, arg any) (Query, bool) {
	v := normalize(arg)
	if v == nil || v == "" {
		return Query{}, false
	}
	return Query{Filter: filter.Text(name, v), Relevance: true}, true
}
