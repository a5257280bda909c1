package adapter

import (
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
)

// positionAdapter indexes an object's slot within its ordered parent.
type positionAdapter struct{ base }

func (a positionAdapter) BuildMapping(string) mapping.Field {
	return mapping.Scalar(mapping.Integer).Stored(false)
}

func (a positionAdapter) ExtractValue(obj catalog.Object) (any, error) {
	child, ok := obj.(catalog.Contained)
	if !ok {
		return nil, nil
	}
	parent, ok := child.Parent()
	if !ok || parent == nil {
		return nil, nil
	}
	pos, ok := parent.(catalog.Positioner)
	if !ok {
		return nil, nil
	}
	n, ok := pos.ObjectPosition(child.ID())
	if !ok {
		return nil, nil
	}
	return n, nil
}
