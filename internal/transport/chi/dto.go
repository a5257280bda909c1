package chi

import (
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
)

// ErrorCode is a machine-readable error class in API responses.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest             ErrorCode = "bad_request"
	CodeUnauthorized           ErrorCode = "unauthorized"
	CodeValidationFailed       ErrorCode = "validation_failed"
	CodeInvalidQuery           ErrorCode = "invalid_query"
	CodeMalformedPath          ErrorCode = "malformed_path"
	CodeDocumentNotFound       ErrorCode = "document_not_found"
	CodeIndexNotFound          ErrorCode = "index_not_found"
	CodeIndexAlreadyExists     ErrorCode = "index_already_exists"
	CodeBatchTooLarge          ErrorCode = "batch_too_large"
	CodeTextSearchNotSupported ErrorCode = "text_search_not_supported"
	CodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// EnsureIndexResponse reports the outcome of POST /schema.
type EnsureIndexResponse struct {
	Index   string `json:"index"`
	Created bool   `json:"created"`
}

// DocumentResponse acknowledges a single indexed document.
type DocumentResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// BatchResultItem is the outcome of one record in a batch.
type BatchResultItem struct {
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse lists per-record outcomes in request order.
type BatchResponse struct {
	Items  []BatchResultItem `json:"items"`
	OK     int               `json:"ok"`
	Failed int               `json:"failed"`
}

// QueryRequest carries a catalog query: index name to query argument.
type QueryRequest struct {
	Query  map[string]any `json:"query"`
	Limit  *int           `json:"limit,omitempty"`
	Offset *int           `json:"offset,omitempty"`
}

// TranslateResponse is a catalog query expressed in the engine filter DSL.
type TranslateResponse struct {
	Filter    filter.Expression   `json:"filter"`
	Relevance []filter.Expression `json:"relevance"`
}

// SearchResultItem is one decoded hit.
type SearchResultItem struct {
	ID     string         `json:"id"`
	Score  float64        `json:"score"`
	Values map[string]any `json:"values"`
}

// SearchResponse is a page of hits.
type SearchResponse struct {
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
	Items  []SearchResultItem `json:"items"`
}
