// Package adapter translates catalog indexes into search engine artifacts:
// field mappings, indexable document values and filter expressions.
//
// Adapters are stateless apart from read-only references to the catalog,
// the index and a logger, and are safe for concurrent use.
package adapter

import (
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
)

// Adapter is the per-index translation contract.
type Adapter interface {
	// Kind returns the kind the adapter was registered for.
	Kind() catalog.Kind
	// Index returns the wrapped catalog index.
	Index() catalog.Index
	// BuildMapping declares how field name is stored and indexed.
	BuildMapping(name string) mapping.Field
	// ExtractValue computes the indexable value of obj. A nil value means none.
	// Only a structurally invalid source value is reported as an error.
	ExtractValue(obj catalog.Object) (any, error)
	// DecodeStored turns a stored document field back into the catalog's form.
	DecodeStored(name string, stored map[string]any) any
	// TranslateQuery re-expresses a catalog query argument for field name.
	// ok is false when the argument imposes no constraint.
	TranslateQuery(name string, arg any) (q Query, ok bool)
}

// Query is a translated catalog query argument.
type Query struct {
	Filter filter.Expression
	// Relevance marks a scored text query rather than a boolean filter.
	Relevance bool
}
