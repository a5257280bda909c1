// Package mapping declares per-field search engine schemas.
package mapping

import (
	"fmt"
	"sort"
)

// Type is the storage type of a field.
type Type string

// Field types.
const (
	String  Type = "string"
	Date    Type = "date"
	Boolean Type = "boolean"
	Integer Type = "integer"
)

// IndexMode says whether a string field is tokenized.
type IndexMode string

// Index modes.
const (
	Analyzed    IndexMode = "analyzed"
	NotAnalyzed IndexMode = "not_analyzed"
)

// KeywordAnalyzer keeps the whole value as a single token.
const KeywordAnalyzer = "keyword"

// Field is a schema declaration for one field: either a scalar
// (Type set) or a composite of named sub-fields (Properties set).
type Field struct {
	Type       Type             `json:"type,omitempty" yaml:"type,omitempty"`
	Index      IndexMode        `json:"index,omitempty" yaml:"index,omitempty"`
	Analyzer   string           `json:"index_analyzer,omitempty" yaml:"analyzer,omitempty"`
	Store      *bool            `json:"store,omitempty" yaml:"store,omitempty"`
	Properties map[string]Field `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Scalar creates a scalar field of type t.
func Scalar(t Type) Field {
	return Field{Type: t}
}

// Composite creates a field made of named sub-fields.
func Composite(props map[string]Field) Field {
	cp := make(map[string]Field, len(props))
	for k, v := range props {
		cp[k] = v
	}
	return Field{Properties: cp}
}

// WithIndex returns a copy with the given index mode.
func (f Field) WithIndex(mode IndexMode) Field {
	f.Index = mode
	return f
}

// WithAnalyzer returns a copy with the given analyzer.
func (f Field) WithAnalyzer(name string) Field {
	f.Analyzer = name
	return f
}

// Stored returns a copy with an explicit store flag.
func (f Field) Stored(store bool) Field {
	f.Store = &store
	return f
}

// IsComposite reports whether the field has sub-fields.
func (f Field) IsComposite() bool { return len(f.Properties) > 0 }

// IsStored reports the explicit store flag (false when unset).
func (f Field) IsStored() bool { return f.Store != nil && *f.Store }

// IsAnalyzed reports whether a string field is tokenized.
func (f Field) IsAnalyzed() bool { return f.Index == Analyzed }

// PropertyNames returns sub-field names in sorted order.
func (f Field) PropertyNames() []string {
	names := make([]string, 0, len(f.Properties))
	for k := range f.Properties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the field is either scalar or composite, recursively.
func (f Field) Validate() error {
	if f.IsComposite() {
		if f.Type != "" {
			return fmt.Errorf("composite field must not declare a type (got %q)", f.Type)
		}
		for _, name := range f.PropertyNames() {
			if name == "" {
				return fmt.Errorf("sub-field name is required")
			}
			if err := f.Properties[name].Validate(); err != nil {
				return fmt.Errorf("sub-field %q: %w", name, err)
			}
		}
		return nil
	}
	switch f.Type {
	case String, Date, Boolean, Integer:
	default:
		return fmt.Errorf("invalid field type %q", f.Type)
	}
	if f.Index != "" && f.Type != String {
		return fmt.Errorf("index mode applies to string fields only")
	}
	return nil
}

// Schema maps field names to their declarations.
type Schema map[string]Field

// Names returns field names in sorted order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Validate checks every field of the schema.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schema has no fields")
	}
	for _, name := range s.Names() {
		if name == "" {
			return fmt.Errorf("field name is required")
		}
		if err := s[name].Validate(); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

// Leaf is a flattened scalar field addressed by its dotted path.
type Leaf struct {
	Path  string
	Field Field
}

// Leaves flattens composite fields into dotted paths ("path.depth"), sorted by path.
func (s Schema) Leaves() []Leaf {
	var out []Leaf
	for _, name := range s.Names() {
		out = appendLeaves(out, name, s[name])
	}
	return out
}

func appendLeaves(out []Leaf, prefix string, f Field) []Leaf {
	if !f.IsComposite() {
		return append(out, Leaf{Path: prefix, Field: f})
	}
	for _, name := range f.PropertyNames() {
		out = appendLeaves(out, prefix+"."+name, f.Properties[name])
	}
	return out
}

// Lookup resolves a dotted path to its scalar declaration.
func (s Schema) Lookup(path string) (Field, bool) {
	for _, l := range s.Leaves() {
		if l.Path == path {
			return l.Field, true
		}
	}
	return Field{}, false
}
