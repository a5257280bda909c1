// Package result holds decoded catalog search hits.
package result

// Result is a single search hit with catalog values decoded per index.
type Result struct {
	id     string
	score  float64
	values map[string]any
}

// New creates a search result.
func New(id string, score float64, values map[string]any) Result {
	return Result{id: id, score: score, values: values}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Score returns the relevance score. Zero for pure filter queries.
func (r *Result) Score() float64 { return r.score }

// Values returns the decoded catalog values keyed by index name.
func (r *Result) Values() map[string]any { return r.values }

// Page is one page of hits plus the total match count.
type Page struct {
	Total int
	Hits  []Result
}
