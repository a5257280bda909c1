package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

var recordIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

// Record is a JSON-backed content object.
type Record struct {
	Key        string         `json:"id"`
	Path       string         `json:"path,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	// Position is the record's slot in its ordered parent, when the parent is ordered.
	Position *int `json:"position,omitempty"`
}

var (
	_ Object         = (*Record)(nil)
	_ PhysicalPather = (*Record)(nil)
	_ Contained      = (*Record)(nil)
)

// Validate checks the record id (1-256 chars of [a-zA-Z0-9_.:-]).
func (r *Record) Validate() error {
	if r.Key == "" {
		return fmt.Errorf("record id is required")
	}
	if len(r.Key) > 256 {
		return fmt.Errorf("record id too long (max 256)")
	}
	if !recordIDRegex.MatchString(r.Key) {
		return fmt.Errorf("record id %q contains invalid characters", r.Key)
	}
	return nil
}

// Attribute returns a named attribute.
func (r *Record) Attribute(name string) (any, bool) {
	v, ok := r.Attributes[name]
	return v, ok
}

// ID returns the record id.
func (r *Record) ID() string { return r.Key }

// PhysicalPath splits Path into segments. ok is false when no path is set.
func (r *Record) PhysicalPath() ([]string, bool) {
	if r.Path == "" {
		return nil, false
	}
	return strings.Split(r.Path, "/"), true
}

// Parent returns an ordered parent when Position is set.
func (r *Record) Parent() (Object, bool) {
	if r.Position == nil {
		return nil, false
	}
	return orderedParent{child: r.Key, position: *r.Position}, true
}

// orderedParent is a synthetic container that knows one child's position.
type orderedParent struct {
	child    string
	position int
}

func (orderedParent) Attribute(string) (any, bool) { return nil, false }

func (p orderedParent) ObjectPosition(id string) (int, bool) {
	if id != p.child {
		return 0, false
	}
	return p.position, true
}
