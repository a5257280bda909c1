package bleve

import (
	"fmt"
	"strconv"
	"time"

	blevesearch "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain/datetime"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
)

// compileQuery combines the filter and relevance clauses into one bleve query.
func compileQuery(schema mapping.Schema, q *db.Query) (query.Query, error) {
	if q.IsMatchAll() {
		return blevesearch.NewMatchAllQuery(), nil
	}

	var clauses []query.Query
	if !q.Filter.IsEmpty() {
		c, err := compileFilter(schema, q.Filter)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}
	for _, r := range q.Relevance {
		c, err := compileFilter(schema, r)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}

	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return blevesearch.NewConjunctionQuery(clauses...), nil
}

func compileFilter(schema mapping.Schema, expr filter.Expression) (query.Query, error) {
	switch expr.Kind() {
	case filter.KindNone:
		return blevesearch.NewMatchAllQuery(), nil
	case filter.KindTerm:
		return termQuery(schema, expr.Field(), expr.Value())
	case filter.KindPrefix:
		s, _ := expr.Value().(string)
		pq := blevesearch.NewPrefixQuery(s)
		pq.SetField(expr.Field())
		return pq, nil
	case filter.KindRange:
		return rangeQuery(schema, expr.Field(), expr.Op(), expr.Value())
	case filter.KindText:
		mq := blevesearch.NewMatchQuery(fmt.Sprint(expr.Value()))
		mq.SetField(expr.Field())
		return mq, nil
	case filter.KindAnd, filter.KindOr:
		children := expr.Children()
		qs := make([]query.Query, 0, len(children))
		for _, c := range children {
			cq, err := compileFilter(schema, c)
			if err != nil {
				return nil, err
			}
			qs = append(qs, cq)
		}
		if expr.Kind() == filter.KindAnd {
			return blevesearch.NewConjunctionQuery(qs...), nil
		}
		return blevesearch.NewDisjunctionQuery(qs...), nil
	default:
		return nil, fmt.Errorf("unsupported filter kind %s", expr.Kind())
	}
}

func termQuery(schema mapping.Schema, field string, value any) (query.Query, error) {
	f, _ := schema.Lookup(field)

	switch f.Type {
	case mapping.Boolean:
		b, err := toBool(value)
		if err != nil {
			return nil, fmt.Errorf("term %s: %w", field, err)
		}
		bq := blevesearch.NewBoolFieldQuery(b)
		bq.SetField(field)
		return bq, nil
	case mapping.Integer:
		n, err := toFloat(value)
		if err != nil {
			return nil, fmt.Errorf("term %s: %w", field, err)
		}
		inclusive := true
		nq := blevesearch.NewNumericRangeInclusiveQuery(&n, &n, &inclusive, &inclusive)
		nq.SetField(field)
		return nq, nil
	case mapping.Date:
		t, ok := datetime.ToTime(value)
		if !ok {
			return nil, fmt.Errorf("term %s: unparsable date %v", field, value)
		}
		inclusive := true
		dq := blevesearch.NewDateRangeInclusiveQuery(t, t, &inclusive, &inclusive)
		dq.SetField(field)
		return dq, nil
	}

	s := fmt.Sprint(value)
	if f.Type == "" || isExactField(f) {
		tq := blevesearch.NewTermQuery(s)
		tq.SetField(field)
		return tq, nil
	}
	mq := blevesearch.NewMatchPhraseQuery(s)
	mq.SetField(field)
	return mq, nil
}

func rangeQuery(schema mapping.Schema, field string, op filter.Op, value any) (query.Query, error) {
	f, _ := schema.Lookup(field)
	inclusive := op == filter.GTE || op == filter.LTE
	lower := op == filter.GT || op == filter.GTE

	if f.Type == mapping.Date {
		t, ok := datetime.ToTime(value)
		if !ok {
			return nil, fmt.Errorf("range %s: unparsable date %v", field, value)
		}
		var start, end time.Time
		if lower {
			start = t
		} else {
			end = t
		}
		dq := blevesearch.NewDateRangeInclusiveQuery(start, end, &inclusive, &inclusive)
		dq.SetField(field)
		return dq, nil
	}

	n, err := toFloat(value)
	if err != nil {
		return nil, fmt.Errorf("range %s: %w", field, err)
	}
	var lo, hi *float64
	if lower {
		lo = &n
	} else {
		hi = &n
	}
	nq := blevesearch.NewNumericRangeInclusiveQuery(lo, hi, &inclusive, &inclusive)
	nq.SetField(field)
	return nq, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(x, 64)
	}
	return 0, fmt.Errorf("not a number: %v", v)
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return strconv.ParseBool(x)
	}
	return false, fmt.Errorf("not a boolean: %v", v)
}
