package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/catalogsearch/internal/db"
)

// Put stores doc as a JSON document under the index's key prefix.
func (s *Store) Put(ctx context.Context, index string, doc db.Document) error {
	is, err := s.schemaFor(ctx, index)
	if err != nil {
		return err
	}

	data, err := json.Marshal(is.toEngine(doc.Fields))
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", doc.ID, err)
	}

	cmd := s.b().Arbitrary("JSON.SET").Keys(s.docKey(index, doc.ID)).Args("$", string(data)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpJSONSet, Err: err}
	}
	return nil
}

// Delete removes a document. A missing document yields db.ErrKeyNotFound.
func (s *Store) Delete(ctx context.Context, index, id string) error {
	existed, err := s.del(ctx, s.docKey(index, id))
	if err != nil {
		return err
	}
	if !existed {
		return db.ErrKeyNotFound
	}
	return nil
}
