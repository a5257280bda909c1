package catalogsearch

import "github.com/kailas-cloud/catalogsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrAlreadyExists          = domain.ErrAlreadyExists
	ErrInvalidSchema          = domain.ErrInvalidSchema
	ErrDocumentNotFound       = domain.ErrDocumentNotFound
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrMalformedPath          = domain.ErrMalformedPath
	ErrBatchTooLarge          = domain.ErrBatchTooLarge
	ErrTextSearchNotSupported = domain.ErrTextSearchNotSupported
)
