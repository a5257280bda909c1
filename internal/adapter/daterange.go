package adapter

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/datetime"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
)

// dateRangeAdapter indexes a validity interval as two dates, <name>1 and <name>2.
type dateRangeAdapter struct{ base }

func (a dateRangeAdapter) BuildMapping(name string) mapping.Field {
	return mapping.Composite(map[string]mapping.Field{
		name + "1": mapping.Scalar(mapping.Date).Stored(false),
		name + "2": mapping.Scalar(mapping.Date).Stored(false),
	})
}

func (a dateRangeAdapter) ExtractValue(obj catalog.Object) (any, error) {
	src, ok := a.index.(catalog.IntervalSource)
	if !ok || src.SinceField() == "" || src.UntilField() == "" {
		return nil, nil
	}

	since := a.resolve(obj, src.SinceField())
	until := a.resolve(obj, src.UntilField())
	if isFalsy(since) || isFalsy(until) {
		return nil, nil
	}

	st, ok := datetime.ToTime(since)
	if !ok {
		return nil, nil
	}
	ut, ok := datetime.ToTime(until)
	if !ok {
		return nil, nil
	}

	id := a.index.ID()
	return map[string]any{
		id + "1": datetime.Format(st),
		id + "2": datetime.Format(ut),
	}, nil
}

func (a dateRangeAdapter) resolve(obj catalog.Object, attr string) any {
	v, _, err := catalog.Resolve(obj, attr)
	if err != nil {
		a.logger.Info("interval attribute unavailable",
			zap.String("index", a.index.ID()),
			zap.String("attribute", attr),
			zap.Error(err),
		)
		return nil
	}
	return v
}

// TranslateQuery matches intervals containing the queried instant.
func (a dateRangeAdapter) TranslateQuery(name string, arg any) (Query, bool) {
	v := normalize(arg)
	if items, ok := asList(v); ok {
		if len(items) == 0 {
			return Query{}, false
		}
		v = items[0]
	}
	ts, ok := datetime.Timestamp(v)
	if !ok {
		return Query{}, false
	}
	return Query{Filter: filter.And(
		filter.Range(name+"."+name+"1", filter.LTE, ts),
		filter.Range(name+"."+name+"2", filter.GTE, ts),
	)}, true
}
