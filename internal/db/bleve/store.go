// Package bleve implements db.Store on embedded bleve indexes, in memory or on disk.
package bleve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	blevesearch "github.com/blevesearch/bleve/v2"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// schemaKey is the internal key holding the catalog schema of an index.
var schemaKey = []byte("catalogsearch:schema")

// Config holds bleve store parameters.
type Config struct {
	// Path is the directory holding one sub-directory per index. Empty keeps indexes in memory.
	Path string
}

type openIndex struct {
	index  blevesearch.Index
	schema mapping.Schema
}

// Store implements db.Store with one bleve index per search index name.
type Store struct {
	mu      sync.RWMutex
	path    string
	indexes map[string]*openIndex
	closed  bool
}

// NewStore creates a bleve store. On-disk indexes are opened lazily.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path != "" {
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create index directory %s: %w", cfg.Path, err)
		}
	}
	return &Store{
		path:    cfg.Path,
		indexes: make(map[string]*openIndex),
	}, nil
}

// Ping reports whether the store is usable.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return db.ErrClosed
	}
	return nil
}

// WaitForReady returns immediately: an embedded index is ready once created.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Close closes every open index.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, oi := range s.indexes {
		_ = oi.index.Close()
		delete(s.indexes, name)
	}
	s.closed = true
}

// SupportsTextSearch returns true: bleve scores match queries natively.
func (s *Store) SupportsTextSearch(_ context.Context) bool {
	return true
}

// CreateIndex creates a bleve index for schema under name.
func (s *Store) CreateIndex(_ context.Context, name string, schema mapping.Schema) error {
	if !db.IsValidIdentifier(name) {
		return fmt.Errorf("invalid index name %q", name)
	}
	if err := schema.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return db.ErrClosed
	}
	if _, ok := s.indexes[name]; ok {
		return db.ErrIndexExists
	}

	im := buildIndexMapping(schema)
	var (
		idx blevesearch.Index
		err error
	)
	if s.path == "" {
		idx, err = blevesearch.NewMemOnly(im)
	} else {
		idx, err = blevesearch.New(s.dir(name), im)
		if errors.Is(err, blevesearch.ErrorIndexPathExists) {
			return db.ErrIndexExists
		}
	}
	if err != nil {
		return &db.Error{Op: db.OpOpen, Err: err}
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		_ = idx.Close()
		return fmt.Errorf("marshal schema: %w", err)
	}
	if err := idx.SetInternal(schemaKey, raw); err != nil {
		_ = idx.Close()
		return &db.Error{Op: db.OpInternal, Err: err}
	}

	s.indexes[name] = &openIndex{index: idx, schema: schema}
	return nil
}

// DropIndex closes the index and removes its files.
func (s *Store) DropIndex(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	oi, err := s.lookupLocked(name)
	if err != nil {
		return err
	}
	delete(s.indexes, name)
	if err := oi.index.Close(); err != nil {
		return &db.Error{Op: db.OpOpen, Err: err}
	}
	if s.path != "" {
		if err := os.RemoveAll(s.dir(name)); err != nil {
			return fmt.Errorf("remove index %s: %w", name, err)
		}
	}
	return nil
}

// IndexExists reports whether the index is open or present on disk.
func (s *Store) IndexExists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.lookupLocked(name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, db.ErrIndexNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Put indexes doc, replacing any previous version.
func (s *Store) Put(_ context.Context, index string, doc db.Document) error {
	oi, err := s.get(index)
	if err != nil {
		return err
	}

	source, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", doc.ID, err)
	}
	fields := make(map[string]any, len(doc.Fields)+1)
	for k, v := range doc.Fields {
		fields[k] = v
	}
	fields[sourceField] = string(source)

	if err := oi.index.Index(doc.ID, fields); err != nil {
		return &db.Error{Op: db.OpIndex, Err: err}
	}
	return nil
}

// Delete removes a document. A missing document yields db.ErrKeyNotFound.
func (s *Store) Delete(_ context.Context, index, id string) error {
	oi, err := s.get(index)
	if err != nil {
		return err
	}

	existing, err := oi.index.Document(id)
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	if existing == nil {
		return db.ErrKeyNotFound
	}
	if err := oi.index.Delete(id); err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	return nil
}

// Search runs q and decodes each hit's stored source.
func (s *Store) Search(ctx context.Context, index string, q *db.Query) (*db.SearchResult, error) {
	oi, err := s.get(index)
	if err != nil {
		return nil, err
	}

	bq, err := compileQuery(oi.schema, q)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	req := blevesearch.NewSearchRequestOptions(bq, limit, q.Offset, false)
	req.Fields = []string{sourceField}
	if len(q.Relevance) == 0 {
		req.SortBy([]string{"_id"})
	} else {
		req.SortBy([]string{"-_score", "_id"})
	}

	res, err := oi.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}

	entries := make([]db.SearchEntry, 0, len(res.Hits))
	for _, hit := range res.Hits {
		entry := db.SearchEntry{ID: hit.ID, Score: hit.Score}
		if raw, ok := hit.Fields[sourceField].(string); ok {
			if err := json.Unmarshal([]byte(raw), &entry.Fields); err != nil {
				return nil, fmt.Errorf("decode document %s: %w", hit.ID, err)
			}
		}
		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(res.Total), Entries: entries}, nil
}

func (s *Store) get(name string) (*openIndex, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, db.ErrClosed
	}
	oi, ok := s.indexes[name]
	s.mu.RUnlock()
	if ok {
		return oi, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupLocked(name)
}

// lookupLocked returns an open index, opening it from disk when needed. Caller holds s.mu.
func (s *Store) lookupLocked(name string) (*openIndex, error) {
	if s.closed {
		return nil, db.ErrClosed
	}
	if oi, ok := s.indexes[name]; ok {
		return oi, nil
	}
	if s.path == "" || !db.IsValidIdentifier(name) {
		return nil, db.ErrIndexNotFound
	}

	idx, err := blevesearch.Open(s.dir(name))
	if errors.Is(err, blevesearch.ErrorIndexPathDoesNotExist) {
		return nil, db.ErrIndexNotFound
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}

	raw, err := idx.GetInternal(schemaKey)
	if err != nil {
		_ = idx.Close()
		return nil, &db.Error{Op: db.OpInternal, Err: err}
	}
	var schema mapping.Schema
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &schema); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("decode schema of %s: %w", name, err)
		}
	}

	oi := &openIndex{index: idx, schema: schema}
	s.indexes[name] = oi
	return oi, nil
}

func (s *Store) dir(name string) string {
	return filepath.Join(s.path, name)
}
