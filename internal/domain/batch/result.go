// Package batch holds per-item outcomes of batch indexing requests.
package batch

// ItemStatus is the indexing outcome of one catalog record.
type ItemStatus string

// Item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of indexing one record of a batch.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewOK records a successfully indexed record.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewError records a record that could not be indexed.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the record id.
func (r Result) ID() string { return r.id }

// Status returns the indexing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the failure, if any.
func (r Result) Err() error { return r.err }

// Summary counts the outcomes of a batch.
type Summary struct {
	OK     int
	Failed int
}

// Summarize tallies results by status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.status == StatusOK {
			s.OK++
		} else {
			s.Failed++
		}
	}
	return s
}
