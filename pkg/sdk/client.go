package catalogsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/adapter"
	"github.com/kailas-cloud/catalogsearch/internal/db"
	dbBleve "github.com/kailas-cloud/catalogsearch/internal/db/bleve"
	dbRedis "github.com/kailas-cloud/catalogsearch/internal/db/redis"
	dombatch "github.com/kailas-cloud/catalogsearch/internal/domain/batch"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	"github.com/kailas-cloud/catalogsearch/internal/repository/catalogindex"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/catalogsearch/internal/usecase/indexing"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultIndexName        = "catalog"
	defaultKeyPrefix        = "catalogsearch:"
)

// Internal interfaces, swapped for fakes in tests.
type indexingUseCase interface {
	Schema() mapping.Schema
	EnsureIndex(ctx context.Context) (bool, error)
	Index(ctx context.Context, rec *catalog.Record) error
	IndexBatch(ctx context.Context, recs []catalog.Record) []dombatch.Result
	Delete(ctx context.Context, id string) error
}

type searchUseCase interface {
	Translate(req request.Request) (searchuc.Translation, error)
	Search(ctx context.Context, req request.Request) (result.Page, error)
}

// Client is the catalogsearch SDK entry point.
type Client struct {
	store     db.Store
	indexSvc  indexingUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client, connects to the search engine and waits until it answers.
// The provided context bounds the initial readiness check.
// The search index itself is not created; call EnsureIndex.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		indexName: defaultIndexName,
		keyPrefix: defaultKeyPrefix,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("catalogsearch: search backend required (use WithBleve or WithRedis)")
	}
	if len(cfg.indexes) == 0 {
		return nil, errors.New("catalogsearch: catalog has no indexes (use WithCatalog)")
	}
	cat, err := catalog.NewStatic(definitions(cfg.indexes)...)
	if err != nil {
		return nil, fmt.Errorf("catalogsearch: invalid catalog: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("catalogsearch: search engine not ready: %w", err)
	}

	return wireClient(store, cat, cfg, obs), nil
}

func definitions(indexes []Index) []catalog.Definition {
	defs := make([]catalog.Definition, len(indexes))
	for i, idx := range indexes {
		defs[i] = idx.toDefinition()
	}
	return defs
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverBleve:
		s, err := dbBleve.NewStore(dbBleve.Config{Path: cfg.path})
		if err != nil {
			return nil, fmt.Errorf("catalogsearch: create bleve store: %w", err)
		}
		return s, nil
	case driverRedis:
		if len(cfg.addrs) == 0 {
			return nil, errors.New("catalogsearch: redis address required")
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.addrs,
			Password:  cfg.password,
			KeyPrefix: cfg.keyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("catalogsearch: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("catalogsearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cat catalog.Catalog, cfg *clientConfig, obs *observer) *Client {
	registry := adapter.NewRegistry(cfg.logger)
	repo := catalogindex.New(store, cfg.indexName)

	indexSvc := indexinguc.New(cat, registry, repo, cfg.logger).
		WithWorkers(cfg.workers).
		WithMaxBatchSize(cfg.maxBatchSize)

	return &Client{
		store:     store,
		indexSvc:  indexSvc,
		searchSvc: searchuc.New(cat, registry, repo, cfg.logger),
		healthSvc: healthuc.New(store, repo),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks search engine connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Schema returns the engine field mapping of every mapped catalog index.
func (c *Client) Schema() map[string]FieldMapping {
	schema := c.indexSvc.Schema()
	out := make(map[string]FieldMapping, len(schema))
	for name, f := range schema {
		out[name] = fieldMappingFromDomain(f)
	}
	return out
}

// EnsureIndex creates the search index unless it exists.
// created is false when the index was already there.
func (c *Client) EnsureIndex(ctx context.Context) (created bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ensure_index", start, err) }()

	return c.indexSvc.EnsureIndex(ctx)
}

// Index writes one record, replacing any previous document with the same ID.
func (c *Client) Index(ctx context.Context, rec Record) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("index", start, err) }()

	r := rec.toDomain()
	return c.indexSvc.Index(ctx, &r)
}

// IndexBatch writes records concurrently and reports one result per record, in input order.
// Records failing to index never abort the rest of the batch.
func (c *Client) IndexBatch(ctx context.Context, recs []Record) []BatchResult {
	start := time.Now()

	in := make([]catalog.Record, len(recs))
	for i, r := range recs {
		in[i] = r.toDomain()
	}
	results := c.indexSvc.IndexBatch(ctx, in)

	out := make([]BatchResult, len(results))
	var failed error
	for i, r := range results {
		out[i] = BatchResult{ID: r.ID(), Err: r.Err()}
		if r.Err() != nil && failed == nil {
			failed = r.Err()
		}
	}
	c.obs.observe("index_batch", start, failed)
	return out
}

// Delete removes a document. Missing documents yield ErrDocumentNotFound.
func (c *Client) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete", start, err) }()

	return c.indexSvc.Delete(ctx, id)
}

// Translate returns the engine form of q without running it.
func (c *Client) Translate(q Query) (Translation, error) {
	req, err := request.New(q, 0, 0)
	if err != nil {
		return Translation{}, err
	}
	tr, err := c.searchSvc.Translate(req)
	if err != nil {
		return Translation{}, err
	}

	var out Translation
	if !tr.Filter.IsEmpty() {
		if out.Filter, err = json.Marshal(tr.Filter); err != nil {
			return Translation{}, fmt.Errorf("marshal filter: %w", err)
		}
	}
	for _, rel := range tr.Relevance {
		raw, err := json.Marshal(rel)
		if err != nil {
			return Translation{}, fmt.Errorf("marshal relevance: %w", err)
		}
		out.Relevance = append(out.Relevance, raw)
	}
	return out, nil
}

// Search runs q and decodes every hit. A zero limit selects the default page size.
func (c *Client) Search(ctx context.Context, q Query, limit, offset int) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	req, err := request.New(q, limit, offset)
	if err != nil {
		return SearchResult{}, err
	}
	page, err := c.searchSvc.Search(ctx, req)
	if err != nil {
		return SearchResult{}, err
	}

	res = SearchResult{Total: page.Total, Hits: make([]Hit, 0, len(page.Hits))}
	for i := range page.Hits {
		h := &page.Hits[i]
		res.Hits = append(res.Hits, Hit{ID: h.ID(), Score: h.Score(), Values: h.Values()})
	}
	return res, nil
}
