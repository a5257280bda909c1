package adapter

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/datetime"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
)

const (
	rangeMin    = "min"
	rangeMax    = "max"
	rangeMinMax = "min:max"
)

// dateAdapter indexes a single instant. Missing dates are stored as the
// sentinel epoch so range filters always have a value to compare.
type dateAdapter struct{ base }

func (a dateAdapter) BuildMapping(string) mapping.Field {
	return mapping.Scalar(mapping.Date).Stored(false)
}

func (a dateAdapter) ExtractValue(obj catalog.Object) (any, error) {
	v := a.datum(obj)
	if items, ok := asList(v); ok {
		if len(items) == 0 {
			v = nil
		} else {
			v = items[0]
		}
	}
	if catalog.IsMissing(v) {
		v = nil
	}

	switch x := v.(type) {
	case nil:
		return datetime.Format(datetime.Epoch), nil
	case string:
		if x == "" || x == "None" {
			return datetime.Format(datetime.Epoch), nil
		}
		t, err := datetime.Parse(x)
		if err != nil {
			a.logger.Info("unparsable date value",
				zap.String("index", a.index.ID()),
				zap.String("value", x),
				zap.Error(err),
			)
			return nil, nil
		}
		return datetime.Format(t), nil
	case time.Time:
		return datetime.Format(x), nil
	case *time.Time:
		if x == nil {
			return datetime.Format(datetime.Epoch), nil
		}
		return datetime.Format(*x), nil
	default:
		return v, nil
	}
}

// TranslateQuery accepts {"query": instant|[lo, hi], "range": "min"|"max"|"min:max"}.
// "min" bounds the field from above by the instant, "max" from below.
func (a dateAdapter) TranslateQuery(name string, arg any) (Query, bool) {
	m, ok := arg.(map[string]any)
	if !ok {
		return Query{}, false
	}
	query, ok := m["query"]
	if !ok || query == nil {
		return Query{}, false
	}

	rng, _ := m["range"].(string)
	items, isList := asList(query)
	if m["range"] == nil && isList {
		rng = rangeMin
	}

	instant := func() (string, bool) {
		if isList {
			if len(items) == 0 {
				return "", false
			}
			return datetime.Timestamp(items[0])
		}
		return datetime.Timestamp(query)
	}

	switch rng {
	case rangeMin:
		ts, ok := instant()
		if !ok {
			return Query{}, false
		}
		return Query{Filter: filter.Range(name, filter.LTE, ts)}, true
	case rangeMax:
		ts, ok := instant()
		if !ok {
			return Query{}, false
		}
		return Query{Filter: filter.Range(name, filter.GTE, ts)}, true
	case rangeMinMax:
		if !isList || len(items) != 2 {
			return Query{}, false
		}
		lo, okLo := datetime.Timestamp(items[0])
		hi, okHi := datetime.Timestamp(items[1])
		if !okLo || !okHi {
			return Query{}, false
		}
		return Query{Filter: filter.And(
			filter.Range(name, filter.GTE, lo),
			filter.Range(name, filter.LTE, hi),
		)}, true
	}
	return Query{}, false
}

func (a dateAdapter) DecodeStored(name string, stored map[string]any) any {
	switch x := a.base.DecodeStored(name, stored).(type) {
	case time.Time:
		return x
	case string:
		t, err := datetime.Parse(x)
		if err != nil {
			return nil
		}
		return t
	default:
		return nil
	}
}
