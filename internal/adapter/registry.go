package adapter

import (
	"slices"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

type constructor func(b base) Adapter

// Registry maps catalog index kinds to adapters. It is immutable after
// NewRegistry returns and safe for concurrent lookups.
type Registry struct {
	logger *zap.Logger
	table  map[catalog.Kind]entry
}

type entry struct {
	kind catalog.Kind
	ctor constructor
}

type registryOptions struct {
	aliases map[catalog.Kind]catalog.Kind
}

// Option configures a Registry.
type Option func(*registryOptions)

// WithAlias routes indexes of kind alias to the adapter registered for target.
func WithAlias(alias, target catalog.Kind) Option {
	return func(o *registryOptions) {
		o.aliases[alias] = target
	}
}

// NewRegistry creates a registry with an adapter for every built-in kind.
func NewRegistry(logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := registryOptions{aliases: make(map[catalog.Kind]catalog.Kind)}
	for _, opt := range opts {
		opt(&o)
	}

	builtins := map[catalog.Kind]constructor{
		catalog.KindKeyword:   func(b base) Adapter { return keywordAdapter{b} },
		catalog.KindField:     func(b base) Adapter { return fieldAdapter{b} },
		catalog.KindDate:      func(b base) Adapter { return dateAdapter{b} },
		catalog.KindText:      func(b base) Adapter { return textAdapter{b} },
		catalog.KindBoolean:   func(b base) Adapter { return booleanAdapter{b} },
		catalog.KindUUID:      func(b base) Adapter { return uuidAdapter{b} },
		catalog.KindPath:      func(b base) Adapter { return pathAdapter{b} },
		catalog.KindPosition:  func(b base) Adapter { return positionAdapter{b} },
		catalog.KindDateRange: func(b base) Adapter { return dateRangeAdapter{b} },
	}

	r := &Registry{
		logger: logger,
		table:  make(map[catalog.Kind]entry, len(builtins)+len(o.aliases)),
	}
	for kind, ctor := range builtins {
		r.table[kind] = entry{kind: kind, ctor: ctor}
	}
	for alias, target := range o.aliases {
		e, ok := r.table[target]
		if !ok {
			logger.Warn("ignoring alias to unknown index kind",
				zap.String("alias", string(alias)),
				zap.String("target", string(target)),
			)
			continue
		}
		r.table[alias] = e
	}
	return r
}

// For returns the adapter for idx, or false when its kind is not mapped.
func (r *Registry) For(cat catalog.Catalog, idx catalog.Index) (Adapter, bool) {
	if idx == nil {
		return nil, false
	}
	e, ok := r.table[idx.Kind()]
	if !ok {
		return nil, false
	}
	return e.ctor(base{
		kind:    e.kind,
		catalog: cat,
		index:   idx,
		logger:  r.logger,
	}), true
}

// Lookup returns the adapter for the catalog index called name.
func (r *Registry) Lookup(cat catalog.Catalog, name string) (Adapter, bool) {
	if cat == nil {
		return nil, false
	}
	idx, ok := cat.Index(name)
	if !ok {
		return nil, false
	}
	return r.For(cat, idx)
}

// Kinds returns every mapped kind, aliases included, sorted.
func (r *Registry) Kinds() []catalog.Kind {
	out := make([]catalog.Kind, 0, len(r.table))
	for k := range r.table {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
