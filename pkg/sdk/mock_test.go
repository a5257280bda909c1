package catalogsearch

import (
	"context"

	dombatch "github.com/kailas-cloud/catalogsearch/internal/domain/batch"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
)

// --- indexingUseCase mock ---

type mockIndexingUC struct {
	schema     mapping.Schema
	ensureFn   func(ctx context.Context) (bool, error)
	indexFn    func(ctx context.Context, rec *catalog.Record) error
	indexBatch func(ctx context.Context, recs []catalog.Record) []dombatch.Result
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockIndexingUC) Schema() mapping.Schema { return m.schema }

func (m *mockIndexingUC) EnsureIndex(ctx context.Context) (bool, error) {
	return m.ensureFn(ctx)
}

func (m *mockIndexingUC) Index(ctx context.Context, rec *catalog.Record) error {
	return m.indexFn(ctx, rec)
}

func (m *mockIndexingUC) IndexBatch(ctx context.Context, recs []catalog.Record) []dombatch.Result {
	return m.indexBatch(ctx, recs)
}

func (m *mockIndexingUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	translateFn func(req request.Request) (searchuc.Translation, error)
	searchFn    func(ctx context.Context, req request.Request) (result.Page, error)
}

func (m *mockSearchUC) Translate(req request.Request) (searchuc.Translation, error) {
	return m.translateFn(req)
}

func (m *mockSearchUC) Search(ctx context.Context, req request.Request) (result.Page, error) {
	return m.searchFn(ctx, req)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

func newMockClient(idx *mockIndexingUC, search *mockSearchUC) *Client {
	return &Client{indexSvc: idx, searchSvc: search}
}
