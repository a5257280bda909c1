// Package indexing drives the adapter registry over a whole catalog:
// it declares the search index schema and turns content objects into documents.
package indexing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/catalogsearch/internal/adapter"
	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
	dombatch "github.com/kailas-cloud/catalogsearch/internal/domain/batch"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
)

// Defaults for batch indexing.
const (
	DefaultWorkers      = 4
	DefaultMaxBatchSize = 100
)

// Service builds search documents for catalog objects and writes them to the index.
type Service struct {
	catalog      catalog.Catalog
	registry     *adapter.Registry
	repo         Repository
	logger       *zap.Logger
	workers      int
	maxBatchSize int
}

// New creates an indexing service.
func New(cat catalog.Catalog, registry *adapter.Registry, repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog:      cat,
		registry:     registry,
		repo:         repo,
		logger:       logger,
		workers:      DefaultWorkers,
		maxBatchSize: DefaultMaxBatchSize,
	}
}

// WithWorkers bounds the number of records built concurrently in a batch.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(n int) *Service {
	if n > 0 {
		s.maxBatchSize = n
	}
	return s
}

// IndexName returns the name of the search index written to.
func (s *Service) IndexName() string { return s.repo.Name() }

// Schema returns the field mapping of every catalog index with an adapter.
// Indexes of unmapped kinds are left out of the search index.
func (s *Service) Schema() mapping.Schema {
	schema := make(mapping.Schema)
	for _, a := range s.adapters() {
		name := a.Index().ID()
		schema[name] = a.BuildMapping(name)
		metrics.ObserveAdapter(string(a.Kind()), metrics.OpMapping, metrics.ResultOK)
	}
	return schema
}

// EnsureIndex creates the search index unless it exists. created is false when it already did.
func (s *Service) EnsureIndex(ctx context.Context) (created bool, err error) {
	exists, err := s.repo.Exists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := s.repo.Create(ctx, s.Schema()); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("search index created", zap.String("index", s.repo.Name()))
	return true, nil
}

// BuildDocument extracts every adapter's value from obj. Nil values are omitted.
// A structurally invalid source value fails the whole document with a *domain.IndexingError.
func (s *Service) BuildDocument(id string, obj catalog.Object) (db.Document, error) {
	doc := db.Document{ID: id, Fields: make(map[string]any)}
	for _, a := range s.adapters() {
		name := a.Index().ID()
		kind := string(a.Kind())

		v, err := a.ExtractValue(obj)
		if err != nil {
			metrics.ObserveAdapter(kind, metrics.OpExtract, metrics.ResultError)
			return db.Document{}, domain.NewIndexingError(id, name, err)
		}
		if v == nil {
			metrics.ObserveAdapter(kind, metrics.OpExtract, metrics.ResultNone)
			continue
		}
		metrics.ObserveAdapter(kind, metrics.OpExtract, metrics.ResultOK)
		doc.Fields[name] = v
	}
	return doc, nil
}

// Index validates rec, builds its document and writes it.
func (s *Service) Index(ctx context.Context, rec *catalog.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}
	return s.IndexObject(ctx, rec.ID(), rec)
}

// IndexObject builds and writes the document for any catalog object.
func (s *Service) IndexObject(ctx context.Context, id string, obj catalog.Object) error {
	err := s.indexObject(ctx, id, obj)
	if err != nil {
		metrics.DocumentsIndexedTotal.WithLabelValues(metrics.ResultFailed).Inc()
		return err
	}
	metrics.DocumentsIndexedTotal.WithLabelValues(metrics.ResultOK).Inc()
	return nil
}

func (s *Service) indexObject(ctx context.Context, id string, obj catalog.Object) error {
	doc, err := s.BuildDocument(id, obj)
	if err != nil {
		return err
	}
	if err := s.repo.Put(ctx, doc); err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	return nil
}

// IndexBatch indexes records concurrently. One failing record never aborts the others;
// results are returned in input order.
func (s *Service) IndexBatch(ctx context.Context, recs []catalog.Record) []dombatch.Result {
	results := make([]dombatch.Result, len(recs))

	if len(recs) > s.maxBatchSize {
		for i := range recs {
			results[i] = dombatch.NewError(
				recs[i].ID(),
				fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrBatchTooLarge),
			)
		}
		return results
	}

	start := time.Now()
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range recs {
		rec := &recs[i]
		g.Go(func() error {
			if err := s.Index(ctx, rec); err != nil {
				results[i] = dombatch.NewError(rec.ID(), err)
				return nil
			}
			results[i] = dombatch.NewOK(rec.ID())
			return nil
		})
	}
	_ = g.Wait()
	metrics.IndexingBatchDuration.Observe(time.Since(start).Seconds())

	sum := dombatch.Summarize(results)
	s.logger.Info("batch indexed",
		zap.String("index", s.repo.Name()),
		zap.Int("ok", sum.OK),
		zap.Int("failed", sum.Failed),
	)
	return results
}

// Delete removes a document from the search index.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// adapters returns the adapter of every mapped catalog index, in catalog order.
func (s *Service) adapters() []adapter.Adapter {
	names := s.catalog.IndexNames()
	out := make([]adapter.Adapter, 0, len(names))
	for _, name := range names {
		a, ok := s.registry.Lookup(s.catalog, name)
		if !ok {
			s.logger.Debug("skipping catalog index without adapter", zap.String("index", name))
			continue
		}
		out = append(out, a)
	}
	return out
}
