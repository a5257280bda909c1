package catalogsearch

import (
	"context"
	"fmt"
	"time"
)

// SearchBuilder is a fluent builder for catalog queries.
type SearchBuilder struct {
	client *Client
	query  Query
	limit  int
	offset int
}

// Find starts a catalog query.
func (c *Client) Find() *SearchBuilder {
	return &SearchBuilder{client: c, query: Query{}}
}

// Where matches objects whose index equals any of values.
func (b *SearchBuilder) Where(index string, values ...any) *SearchBuilder {
	if len(values) == 1 {
		b.query[index] = values[0]
	} else {
		b.query[index] = values
	}
	return b
}

// Under matches objects located at or below path. A negative depth is unlimited,
// zero matches path itself and n matches up to n levels below it.
func (b *SearchBuilder) Under(index, path string, depth int) *SearchBuilder {
	b.query[index] = map[string]any{"query": path, "depth": depth}
	return b
}

// Text adds a full-text clause. Hits are then ranked by relevance.
func (b *SearchBuilder) Text(index, text string) *SearchBuilder {
	b.query[index] = text
	return b
}

// Between matches dates from from to to, both inclusive.
func (b *SearchBuilder) Between(index string, from, to time.Time) *SearchBuilder {
	b.query[index] = map[string]any{
		"query": []any{from.Format(time.RFC3339), to.Format(time.RFC3339)},
		"range": "min:max",
	}
	return b
}

// Limit sets the page size.
func (b *SearchBuilder) Limit(n int) *SearchBuilder {
	b.limit = n
	return b
}

// Offset skips the first n hits.
func (b *SearchBuilder) Offset(n int) *SearchBuilder {
	b.offset = n
	return b
}

// Query returns the catalog query built so far.
func (b *SearchBuilder) Query() Query {
	out := make(Query, len(b.query))
	for k, v := range b.query {
		out[k] = v
	}
	return out
}

// Do executes the search.
func (b *SearchBuilder) Do(ctx context.Context) (SearchResult, error) {
	res, err := b.client.Search(ctx, b.query, b.limit, b.offset)
	if err != nil {
		return SearchResult{}, fmt.Errorf("catalog search: %w", err)
	}
	return res, nil
}
