// Package search turns catalog queries into search engine queries and decodes the hits.
package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/adapter"
	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
)

// Translation is a catalog query re-expressed for the search engine.
type Translation struct {
	// Filter is the conjunction of every boolean constraint. Empty when there is none.
	Filter filter.Expression
	// Relevance holds the scored text clauses.
	Relevance []filter.Expression
}

// IsEmpty reports whether the translation constrains nothing.
func (t Translation) IsEmpty() bool {
	return t.Filter.IsEmpty() && len(t.Relevance) == 0
}

// Service translates and runs catalog queries.
type Service struct {
	catalog  catalog.Catalog
	registry *adapter.Registry
	repo     Repository
	logger   *zap.Logger
}

// New creates a search service. repo may be nil for translate-only use.
func New(cat catalog.Catalog, registry *adapter.Registry, repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: cat, registry: registry, repo: repo, logger: logger}
}

// Translate re-expresses every criterion of query through its index adapter.
// A criterion naming no catalog index fails with domain.ErrInvalidQuery; a catalog
// index without an adapter, or an argument imposing no constraint, is skipped.
func (s *Service) Translate(req request.Request) (Translation, error) {
	var (
		filters []filter.Expression
		out     Translation
	)
	for _, name := range req.Names() {
		if _, ok := s.catalog.Index(name); !ok {
			return Translation{}, fmt.Errorf("unknown index %q: %w", name, domain.ErrInvalidQuery)
		}
		a, ok := s.registry.Lookup(s.catalog, name)
		if !ok {
			s.logger.Debug("skipping query on index without adapter", zap.String("index", name))
			continue
		}

		q, ok := a.TranslateQuery(name, req.Query()[name])
		if !ok {
			metrics.ObserveAdapter(string(a.Kind()), metrics.OpTranslate, metrics.ResultNone)
			continue
		}
		metrics.ObserveAdapter(string(a.Kind()), metrics.OpTranslate, metrics.ResultOK)

		if q.Relevance {
			out.Relevance = append(out.Relevance, q.Filter)
		} else {
			filters = append(filters, q.Filter)
		}
	}

	switch len(filters) {
	case 0:
	case 1:
		out.Filter = filters[0]
	default:
		out.Filter = filter.And(filters...)
	}
	return out, nil
}

// Search translates req, runs it and decodes each hit through the catalog's adapters.
func (s *Service) Search(ctx context.Context, req request.Request) (result.Page, error) {
	if s.repo == nil {
		return result.Page{}, errors.New("search repository is not configured")
	}

	tr, err := s.Translate(req)
	if err != nil {
		return result.Page{}, err
	}
	if len(tr.Relevance) > 0 && !s.repo.SupportsTextSearch(ctx) {
		return result.Page{}, domain.ErrTextSearchNotSupported
	}

	res, err := s.repo.Search(ctx, &db.Query{
		Filter:    tr.Filter,
		Relevance: tr.Relevance,
		Limit:     req.Limit(),
		Offset:    req.Offset(),
	})
	if err != nil {
		return result.Page{}, fmt.Errorf("search: %w", err)
	}

	adapters := s.adapters()
	hits := make([]result.Result, 0, len(res.Entries))
	for _, e := range res.Entries {
		hits = append(hits, result.New(e.ID, e.Score, decode(adapters, e.Fields)))
	}
	return result.Page{Total: res.Total, Hits: hits}, nil
}

// decode turns stored fields back into catalog values, one entry per mapped index.
func decode(adapters []adapter.Adapter, fields map[string]any) map[string]any {
	if fields == nil {
		fields = map[string]any{}
	}
	values := make(map[string]any, len(adapters))
	for _, a := range adapters {
		name := a.Index().ID()
		values[name] = a.DecodeStored(name, fields)
		metrics.ObserveAdapter(string(a.Kind()), metrics.OpDecode, metrics.ResultOK)
	}
	return values
}

func (s *Service) adapters() []adapter.Adapter {
	names := s.catalog.IndexNames()
	out := make([]adapter.Adapter, 0, len(names))
	for _, name := range names {
		if a, ok := s.registry.Lookup(s.catalog, name); ok {
			out = append(out, a)
		}
	}
	return out
}
