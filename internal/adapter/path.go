package adapter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
)

const (
	pathProperty  = "path"
	depthProperty = "depth"
)

// pathAdapter indexes an object's location as {path, depth}.
type pathAdapter struct{ base }

func (a pathAdapter) BuildMapping(string) mapping.Field {
	return mapping.Composite(map[string]mapping.Field{
		pathProperty: mapping.Scalar(mapping.String).
			WithIndex(mapping.Analyzed).
			WithAnalyzer(mapping.KeywordAnalyzer).
			Stored(false),
		depthProperty: mapping.Scalar(mapping.Integer).Stored(false),
	})
}

func (a pathAdapter) attribute() string {
	if src, ok := a.index.(catalog.PathSource); ok {
		if attrs := src.IndexedAttrs(); len(attrs) > 0 {
			return attrs[0]
		}
	}
	return a.index.ID()
}

func (a pathAdapter) ExtractValue(obj catalog.Object) (any, error) {
	attr := a.attribute()
	v, ok, err := catalog.Resolve(obj, attr)
	if err != nil {
		return nil, fmt.Errorf("%w: index %q: %w", domain.ErrMalformedPath, a.index.ID(), err)
	}

	var segments []string
	if ok {
		segments, err = pathSegments(v)
		if err != nil {
			return nil, fmt.Errorf("%w: (%q, %#v)", err, attr, v)
		}
	} else {
		pp, ok := obj.(catalog.PhysicalPather)
		if !ok {
			return nil, nil
		}
		if segments, ok = pp.PhysicalPath(); !ok {
			return nil, nil
		}
	}

	return map[string]any{
		pathProperty:  strings.Join(segments, "/"),
		depthProperty: len(segments) - 1,
	}, nil
}

// pathSegments accepts a "/"-separated string or a tuple of string segments.
func pathSegments(v any) ([]string, error) {
	switch x := v.(type) {
	case string:
		return strings.Split(x, "/"), nil
	case []string:
		return x, nil
	case []any:
		out := make([]string, len(x))
		for i, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, domain.ErrMalformedPath
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, domain.ErrMalformedPath
}

type pathQuery struct {
	paths        []string
	depth        int
	navtree      bool
	navtreeStart int
}

func parsePathQuery(arg any) (pathQuery, bool) {
	q := pathQuery{depth: -1}
	var paths any
	switch x := arg.(type) {
	case string:
		paths = x
	case map[string]any:
		q.depth = intValue(x["depth"], -1)
		q.navtree = !isFalsy(x["navtree"])
		q.navtreeStart = intValue(x["navtree_start"], 0)
		paths = x["query"]
	default:
		return q, false
	}

	if isFalsy(paths) {
		return q, false
	}
	if s, ok := paths.(string); ok {
		q.paths = []string{s}
		return q, true
	}
	items, ok := asList(paths)
	if !ok {
		return q, false
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			q.paths = append(q.paths, s)
		}
	}
	return q, len(q.paths) > 0
}

// TranslateQuery matches objects under each path within the requested depth.
// A navtree query counts depth from navtree_start instead of from the path itself.
func (a pathAdapter) TranslateQuery(name string, arg any) (Query, bool) {
	q, ok := parsePathQuery(arg)
	if !ok {
		return Query{}, false
	}

	pathField := name + "." + pathProperty
	depthField := name + "." + depthProperty

	clauses := make([]filter.Expression, 0, len(q.paths))
	for _, p := range q.paths {
		if q.depth == 0 {
			clauses = append(clauses, filter.Term(pathField, p))
			continue
		}

		start := len(strings.Split(p, "/")) - 1
		var end int
		if q.navtree {
			start += q.navtreeStart
			end = q.navtreeStart + q.depth
		} else {
			end = start + q.depth
		}
		cmp := filter.GT
		if q.navtree || q.depth == -1 {
			cmp = filter.GTE
		}

		parts := []filter.Expression{
			filter.Prefix(pathField, p),
			filter.Range(depthField, cmp, start),
		}
		if q.depth != -1 {
			parts = append(parts, filter.Range(depthField, filter.LTE, end))
		}
		clauses = append(clauses, filter.And(parts...))
	}

	if len(clauses) == 1 {
		return Query{Filter: clauses[0]}, true
	}
	return Query{Filter: filter.Or(clauses...)}, true
}

func (a pathAdapter) DecodeStored(name string, stored map[string]any) any {
	rec, ok := stored[name].(map[string]any)
	if !ok {
		return nil
	}
	return rec[pathProperty]
}
