package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidSchema signals an invalid mapping or index definition.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidQuery signals a catalog query naming an unknown index or carrying a bad payload.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrMalformedPath signals a path source attribute that is neither a string nor a segment list.
	ErrMalformedPath = errors.New("path value must be string or tuple of strings")
	// ErrBatchTooLarge signals a batch request over the configured size limit.
	ErrBatchTooLarge = errors.New("batch too large")
	// ErrTextSearchNotSupported signals that the backend cannot run relevance queries.
	ErrTextSearchNotSupported = errors.New("text search not supported by backend")
)

// IndexingError ties a document failure to the document id and the index that raised it.
type IndexingError struct {
	DocumentID string
	Index      string
	Err        error
}

func (e *IndexingError) Error() string {
	return fmt.Sprintf("index %q for document %q: %v", e.Index, e.DocumentID, e.Err)
}

func (e *IndexingError) Unwrap() error { return e.Err }

// NewIndexingError wraps err with the document and index it failed on.
func NewIndexingError(documentID, index string, err error) error {
	return &IndexingError{DocumentID: documentID, Index: index, Err: err}
}
