package catalogsearch

import (
	"encoding/json"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
)

// Kind is the catalog index class.
type Kind string

// Index kinds with a search engine mapping.
const (
	KindField     Kind = Kind(catalog.KindField)
	KindKeyword   Kind = Kind(catalog.KindKeyword)
	KindDate      Kind = Kind(catalog.KindDate)
	KindText      Kind = Kind(catalog.KindText)
	KindBoolean   Kind = Kind(catalog.KindBoolean)
	KindUUID      Kind = Kind(catalog.KindUUID)
	KindPath      Kind = Kind(catalog.KindPath)
	KindPosition  Kind = Kind(catalog.KindPosition)
	KindDateRange Kind = Kind(catalog.KindDateRange)
)

// Index declares one catalog index.
type Index struct {
	Name string
	Kind Kind
	// Sources are the attributes read for the index value. Default: the index name.
	Sources []string
	// FieldName is the single text source of a KindText index without IndexedAttrs.
	FieldName string
	// IndexedAttrs are concatenated into the searchable text of a KindText index.
	IndexedAttrs []string
	// SinceField and UntilField bound a KindDateRange interval.
	SinceField string
	UntilField string
}

func (i Index) toDefinition() catalog.Definition {
	return catalog.Definition{
		Name:    i.Name,
		Type:    catalog.Kind(i.Kind),
		Sources: i.Sources,
		Field:   i.FieldName,
		Attrs:   i.IndexedAttrs,
		Since:   i.SinceField,
		Until:   i.UntilField,
	}
}

// Record is a content object to index.
type Record struct {
	ID         string
	Path       string
	Attributes map[string]any
	// Position is the slot in an ordered parent. Nil when the parent is unordered.
	Position *int
}

func (r Record) toDomain() catalog.Record {
	return catalog.Record{
		Key:        r.ID,
		Path:       r.Path,
		Attributes: r.Attributes,
		Position:   r.Position,
	}
}

// Query maps catalog index names to their query arguments, e.g.
//
//	Query{"portal_type": []string{"Document", "News Item"}, "path": "/plone/news"}
type Query map[string]any

// Hit is one search result. Values holds one decoded catalog value per mapped index.
type Hit struct {
	ID     string
	Score  float64
	Values map[string]any
}

// Date returns a decoded date value. ok is false when the index is not a date.
func (h Hit) Date(index string) (t time.Time, ok bool) {
	t, ok = h.Values[index].(time.Time)
	return t, ok
}

// SearchResult is one page of hits.
type SearchResult struct {
	Total int
	Hits  []Hit
}

// Translation is the engine form of a catalog query as JSON DSL.
// Filter is nil when no boolean constraint applies.
type Translation struct {
	Filter    json.RawMessage   `json:"filter,omitempty"`
	Relevance []json.RawMessage `json:"relevance,omitempty"`
}

// BatchResult is the outcome of indexing one record of a batch.
type BatchResult struct {
	ID  string
	Err error
}

// OK reports whether the record was indexed.
func (r BatchResult) OK() bool { return r.Err == nil }

// FieldMapping is the engine declaration of one index.
type FieldMapping struct {
	Type       string                  `json:"type,omitempty"`
	Index      string                  `json:"index,omitempty"`
	Analyzer   string                  `json:"index_analyzer,omitempty"`
	Stored     bool                    `json:"store,omitempty"`
	Properties map[string]FieldMapping `json:"properties,omitempty"`
}

func fieldMappingFromDomain(f mapping.Field) FieldMapping {
	fm := FieldMapping{
		Type:     string(f.Type),
		Index:    string(f.Index),
		Analyzer: f.Analyzer,
		Stored:   f.IsStored(),
	}
	if f.IsComposite() {
		fm.Properties = make(map[string]FieldMapping, len(f.Properties))
		for name, sub := range f.Properties {
			fm.Properties[name] = fieldMappingFromDomain(sub)
		}
	}
	return fm
}
