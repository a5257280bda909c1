package db

import "errors"

// Sentinel errors for search engine operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrClosed        = errors.New("db: store closed")
)

// Op constants name the engine command for error context.
const (
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpDel         = "DEL"
	OpGet         = "GET"
	OpSet         = "SET"
	OpJSONSet     = "JSON.SET"

	OpOpen     = "bleve.open"
	OpIndex    = "bleve.index"
	OpDelete   = "bleve.delete"
	OpQuery    = "bleve.search"
	OpInternal = "bleve.internal"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
