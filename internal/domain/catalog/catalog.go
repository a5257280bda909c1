// Package catalog describes the content catalog as seen by the search translation layer:
// index descriptors, content objects and the optional capabilities either may expose.
package catalog

// Kind is the catalog's index class name.
type Kind string

// Index kinds understood by the default adapter registry.
const (
	KindKeyword   Kind = "KeywordIndex"
	KindField     Kind = "FieldIndex"
	KindDate      Kind = "DateIndex"
	KindText      Kind = "ZCTextIndex"
	KindBoolean   Kind = "BooleanIndex"
	KindUUID      Kind = "UUIDIndex"
	KindPath      Kind = "ExtendedPathIndex"
	KindPosition  Kind = "GopipIndex"
	KindDateRange Kind = "DateRangeIndex"
)

// Index is a named, typed catalog index. Read-only to this layer.
type Index interface {
	ID() string
	Kind() Kind
	SourceNames() []string
}

// DatumExtractor is implemented by indexes that can read their own value from an object.
type DatumExtractor interface {
	Datum(obj Object, attr string) (any, error)
}

// TextSource is implemented by full-text indexes.
// IndexedAttrs may be nil, in which case FieldName is the single source.
type TextSource interface {
	IndexedAttrs() []string
	FieldName() string
}

// PathSource is implemented by path indexes. A nil IndexedAttrs means the index id is the attribute.
type PathSource interface {
	IndexedAttrs() []string
}

// IntervalSource is implemented by date-range indexes.
type IntervalSource interface {
	SinceField() string
	UntilField() string
}

// Catalog gives access to indexes by name.
type Catalog interface {
	Index(name string) (Index, bool)
	IndexNames() []string
}
