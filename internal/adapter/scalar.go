package adapter

import (
	"github.com/kailas-cloud/catalogsearch/internal/domain/mapping"
)

// keywordAdapter indexes a multi-valued set of exact terms.
type keywordAdapter struct{ base }

func (a keywordAdapter) DecodeStored(name string, stored map[string]any) any {
	v := stored[name]
	if isFalsy(v) {
		return []any{}
	}
	return v
}

// fieldAdapter indexes a single exact value.
type fieldAdapter struct{ base }

// uuidAdapter indexes the object's unique identifier.
type uuidAdapter struct{ base }

type booleanAdapter struct{ base }

func (a booleanAdapter) BuildMapping(string) mapping.Field {
	return mapping.Scalar(mapping.Boolean)
}
