package catalog

import "fmt"

// Definition is a declarative catalog index, usually loaded from configuration.
// It implements Index and every optional index capability.
type Definition struct {
	Name    string   `yaml:"name" json:"name"`
	Type    Kind     `yaml:"kind" json:"kind"`
	Sources []string `yaml:"sources,omitempty" json:"sources,omitempty"`
	// Field is the single text source when Attrs is empty (full-text indexes).
	Field string   `yaml:"field_name,omitempty" json:"field_name,omitempty"`
	Attrs []string `yaml:"indexed_attrs,omitempty" json:"indexed_attrs,omitempty"`
	Since string   `yaml:"since_field,omitempty" json:"since_field,omitempty"`
	Until string   `yaml:"until_field,omitempty" json:"until_field,omitempty"`
}

var (
	_ Index          = Definition{}
	_ DatumExtractor = Definition{}
	_ TextSource     = Definition{}
	_ PathSource     = Definition{}
	_ IntervalSource = Definition{}
)

// ID returns the index name.
func (d Definition) ID() string { return d.Name }

// Kind returns the index class.
func (d Definition) Kind() Kind { return d.Type }

// SourceNames returns the declared source attributes, defaulting to the index name.
func (d Definition) SourceNames() []string {
	if len(d.Sources) == 0 {
		return []string{d.Name}
	}
	out := make([]string, len(d.Sources))
	copy(out, d.Sources)
	return out
}

// IndexedAttrs returns Attrs, falling back to Sources. Nil when neither is declared.
func (d Definition) IndexedAttrs() []string {
	switch {
	case len(d.Attrs) > 0:
		return append([]string(nil), d.Attrs...)
	case len(d.Sources) > 0:
		return append([]string(nil), d.Sources...)
	default:
		return nil
	}
}

// FieldName returns the single text source attribute.
func (d Definition) FieldName() string {
	if d.Field != "" {
		return d.Field
	}
	return d.Name
}

// SinceField returns the interval start attribute.
func (d Definition) SinceField() string { return d.Since }

// UntilField returns the interval end attribute.
func (d Definition) UntilField() string { return d.Until }

// Datum reads attr from obj. Absent attributes yield Missing.
func (d Definition) Datum(obj Object, attr string) (any, error) {
	v, ok, err := Resolve(obj, attr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Missing, nil
	}
	return v, nil
}

// Validate checks the definition is usable.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("index name is required")
	}
	if d.Type == "" {
		return fmt.Errorf("index %q: kind is required", d.Name)
	}
	if d.Type == KindDateRange && (d.Since == "") != (d.Until == "") {
		return fmt.Errorf("index %q: since_field and until_field must be declared together", d.Name)
	}
	return nil
}

// Static is an immutable catalog built from definitions. Safe for concurrent use.
type Static struct {
	order []string
	byID  map[string]Definition
}

var _ Catalog = (*Static)(nil)

// NewStatic validates definitions and builds a catalog preserving declaration order.
func NewStatic(defs ...Definition) (*Static, error) {
	s := &Static{
		order: make([]string, 0, len(defs)),
		byID:  make(map[string]Definition, len(defs)),
	}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.byID[d.Name]; dup {
			return nil, fmt.Errorf("duplicate index %q", d.Name)
		}
		s.order = append(s.order, d.Name)
		s.byID[d.Name] = d
	}
	return s, nil
}

// Index returns the named index.
func (s *Static) Index(name string) (Index, bool) {
	d, ok := s.byID[name]
	if !ok {
		return nil, false
	}
	return d, true
}

// IndexNames returns index names in declaration order.
func (s *Static) IndexNames() []string {
	return append([]string(nil), s.order...)
}

// Definitions returns the definitions in declaration order.
func (s *Static) Definitions() []Definition {
	out := make([]Definition, len(s.order))
	for i, name := range s.order {
		out[i] = s.byID[name]
	}
	return out
}
