package catalog

import "fmt"

// Object is a content object exposing named attributes.
// A value may be plain or an Accessor to be invoked on read.
type Object interface {
	Attribute(name string) (any, bool)
}

// Accessor is the zero-argument accessor form of an attribute.
type Accessor func() (any, error)

// PhysicalPather exposes the object's location as path segments ("", "plone", "news").
type PhysicalPather interface {
	PhysicalPath() ([]string, bool)
}

// Contained is implemented by objects that know their container.
type Contained interface {
	ID() string
	Parent() (Object, bool)
}

// Positioner is implemented by ordered containers.
type Positioner interface {
	ObjectPosition(id string) (int, bool)
}

type missingValue struct{}

func (missingValue) String() string { return "Missing.Value" }

// Missing marks a value the catalog could not compute. It is distinct from nil.
var Missing any = missingValue{}

// IsMissing reports whether v is the Missing marker.
func IsMissing(v any) bool {
	_, ok := v.(missingValue)
	return ok
}

// Resolve reads attribute name from obj, invoking it when it is an accessor.
// ok is false when the attribute is absent; err is set only when an accessor failed.
func Resolve(obj Object, name string) (value any, ok bool, err error) {
	if obj == nil || name == "" {
		return nil, false, nil
	}
	v, ok := obj.Attribute(name)
	if !ok {
		return nil, false, nil
	}

	switch fn := v.(type) {
	case Accessor:
		if fn == nil {
			return nil, true, nil
		}
		out, err := fn()
		if err != nil {
			return nil, true, fmt.Errorf("call accessor %q: %w", name, err)
		}
		return out, true, nil
	case func() (any, error):
		out, err := fn()
		if err != nil {
			return nil, true, fmt.Errorf("call accessor %q: %w", name, err)
		}
		return out, true, nil
	case func() any:
		return fn(), true, nil
	}
	return v, true, nil
}

// Attrs is a plain attribute map satisfying Object.
type Attrs map[string]any

// Attribute returns a named attribute.
func (a Attrs) Attribute(name string) (any, bool) {
	v, ok := a[name]
	return v, ok
}
