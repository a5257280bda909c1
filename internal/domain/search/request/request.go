// Package request holds validated catalog search requests.
package request

import (
	"fmt"
	"sort"
)

// Paging limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxCriteria bounds the number of catalog indexes one query may name.
	MaxCriteria = 64
)

// Request is a validated catalog search: index name to catalog query argument.
type Request struct {
	query  map[string]any
	limit  int
	offset int
}

// New validates and normalizes search parameters.
// A nil or empty query matches every document. limit defaults to DefaultLimit and is clamped to MaxLimit.
func New(query map[string]any, limit, offset int) (Request, error) {
	if len(query) > MaxCriteria {
		return Request{}, fmt.Errorf("too many query criteria (max %d)", MaxCriteria)
	}
	for name := range query {
		if name == "" {
			return Request{}, fmt.Errorf("query criterion requires an index name")
		}
	}
	if offset < 0 {
		return Request{}, fmt.Errorf("offset must not be negative")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	cp := make(map[string]any, len(query))
	for k, v := range query {
		cp[k] = v
	}
	return Request{query: cp, limit: limit, offset: offset}, nil
}

// Query returns the catalog query arguments by index name.
func (r Request) Query() map[string]any { return r.query }

// Names returns the queried index names in sorted order.
func (r Request) Names() []string {
	names := make([]string, 0, len(r.query))
	for k := range r.query {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Limit returns the page size.
func (r Request) Limit() int { return r.limit }

// Offset returns the number of hits to skip.
func (r Request) Offset() int { return r.offset }
