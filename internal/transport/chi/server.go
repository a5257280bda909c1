// Package chi exposes the catalog search services over HTTP with a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	dombatch "github.com/kailas-cloud/catalogsearch/internal/domain/batch"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/catalogsearch/internal/usecase/indexing"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
	"github.com/kailas-cloud/catalogsearch/internal/version"
)

// maxBodyBytes caps request bodies; batches of full records are the largest payload.
const maxBodyBytes = 16 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the catalog search HTTP API.
type Server struct {
	indexing      *indexinguc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler

	defaultPageSize int
	maxPageSize     int
	maxBatchSize    int
}

// NewServer creates an HTTP API server.
func NewServer(
	indexing *indexinguc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		indexing:        indexing,
		search:          search,
		health:          health,
		logger:          logger,
		defaultPageSize: request.DefaultLimit,
		maxPageSize:     request.MaxLimit,
		maxBatchSize:    indexinguc.DefaultMaxBatchSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMalformedPath, http.StatusUnprocessableEntity, CodeMalformedPath),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery),
		sentinelHandler(domain.ErrInvalidSchema, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, CodeDocumentNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeIndexNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeIndexAlreadyExists),
		sentinelHandler(domain.ErrBatchTooLarge, http.StatusRequestEntityTooLarge, CodeBatchTooLarge),
		sentinelHandler(domain.ErrTextSearchNotSupported, http.StatusNotImplemented, CodeTextSearchNotSupported),
	}
	return s
}

// WithPagination configures the default and maximum search page size.
func (s *Server) WithPagination(defaultSize, maxSize int) *Server {
	if maxSize > 0 && maxSize <= request.MaxLimit {
		s.maxPageSize = maxSize
	}
	if defaultSize > 0 && defaultSize <= s.maxPageSize {
		s.defaultPageSize = defaultSize
	}
	return s
}

// WithMaxBatchSize configures the largest accepted batch.
func (s *Server) WithMaxBatchSize(n int) *Server {
	if n > 0 {
		s.maxBatchSize = n
	}
	return s
}

// Router mounts every route behind the standard middleware chain.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/schema", s.GetSchema)
	r.Post("/schema", s.EnsureIndex)

	r.Post("/documents:batch", s.BatchIndex)
	r.Put("/documents/{id}", s.IndexDocument)
	r.Delete("/documents/{id}", s.DeleteDocument)

	r.Post("/translate", s.Translate)
	r.Post("/search", s.Search)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
	return r
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

// GetSchema handles GET /schema.
func (s *Server) GetSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.indexing.Schema())
}

// EnsureIndex handles POST /schema. An existing index is left untouched.
func (s *Server) EnsureIndex(w http.ResponseWriter, r *http.Request) {
	created, err := s.indexing.EnsureIndex(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, EnsureIndexResponse{Index: s.indexing.IndexName(), Created: created})
}

// IndexDocument handles PUT /documents/{id}.
func (s *Server) IndexDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var rec catalog.Record
	if !s.decode(w, r, &rec) {
		return
	}
	if rec.Key == "" {
		rec.Key = id
	}
	if rec.Key != id {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("body id %q does not match path id %q", rec.Key, id))
		return
	}

	if err := s.indexing.Index(r.Context(), &rec); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{ID: id, Status: string(dombatch.StatusOK)})
}

// BatchIndex handles POST /documents:batch. One failing record never aborts the others.
func (s *Server) BatchIndex(w http.ResponseWriter, r *http.Request) {
	var recs []catalog.Record
	if !s.decode(w, r, &recs) {
		return
	}
	if len(recs) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "batch must contain at least one record")
		return
	}
	if len(recs) > s.maxBatchSize {
		s.handleDomainError(w, fmt.Errorf("%d records, max %d: %w", len(recs), s.maxBatchSize, domain.ErrBatchTooLarge))
		return
	}

	results := s.indexing.IndexBatch(r.Context(), recs)
	resp := BatchResponse{Items: make([]BatchResultItem, len(results))}
	for i, res := range results {
		resp.Items[i] = batchResultToResponse(res)
	}
	sum := dombatch.Summarize(results)
	resp.OK, resp.Failed = sum.OK, sum.Failed
	writeJSON(w, http.StatusOK, resp)
}

// DeleteDocument handles DELETE /documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.indexing.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Translate handles POST /translate.
func (s *Server) Translate(w http.ResponseWriter, r *http.Request) {
	var body QueryRequest
	if !s.decode(w, r, &body) {
		return
	}
	req, err := request.New(body.Query, 0, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	tr, err := s.search.Translate(req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, translationToResponse(tr))
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body QueryRequest
	if !s.decode(w, r, &body) {
		return
	}
	req, err := s.searchRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	page, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := SearchResponse{
		Total:  page.Total,
		Limit:  req.Limit(),
		Offset: req.Offset(),
		Items:  make([]SearchResultItem, len(page.Hits)),
	}
	for i := range page.Hits {
		resp.Items[i] = searchResultToResponse(&page.Hits[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) searchRequest(body QueryRequest) (request.Request, error) {
	limit := s.defaultPageSize
	if body.Limit != nil {
		if *body.Limit <= 0 || *body.Limit > s.maxPageSize {
			return request.Request{}, fmt.Errorf("limit must be between 1 and %d", s.maxPageSize)
		}
		limit = *body.Limit
	}
	offset := 0
	if body.Offset != nil {
		offset = *body.Offset
	}

	req, err := request.New(body.Query, limit, offset)
	if err != nil {
		return request.Request{}, fmt.Errorf("build search request: %w", err)
	}
	return req, nil
}

// decode reads a JSON body into v, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns the text of errors wrapping a known sentinel; anything else is reported as internal.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrMalformedPath,
		domain.ErrInvalidQuery,
		domain.ErrInvalidSchema,
		domain.ErrDocumentNotFound,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrBatchTooLarge,
		domain.ErrTextSearchNotSupported,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func translationToResponse(tr searchuc.Translation) TranslateResponse {
	rel := tr.Relevance
	if rel == nil {
		rel = []filter.Expression{}
	}
	return TranslateResponse{Filter: tr.Filter, Relevance: rel}
}

func searchResultToResponse(r *result.Result) SearchResultItem {
	return SearchResultItem{
		ID:     r.ID(),
		Score:  r.Score(),
		Values: r.Values(),
	}
}

func batchResultToResponse(r dombatch.Result) BatchResultItem {
	item := BatchResultItem{
		ID:     r.ID(),
		Status: string(r.Status()),
	}
	if r.Err() != nil {
		item.Error = &ErrorResponse{
			Code:    batchErrorCode(r.Err()),
			Message: safeDomainMessage(r.Err()),
		}
	}
	return item
}

func batchErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, domain.ErrMalformedPath):
		return CodeMalformedPath
	case errors.Is(err, domain.ErrInvalidSchema):
		return CodeValidationFailed
	case errors.Is(err, domain.ErrNotFound):
		return CodeIndexNotFound
	case errors.Is(err, domain.ErrBatchTooLarge):
		return CodeBatchTooLarge
	default:
		return CodeInternalError
	}
}
