package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK      ItemStatus = "ok"
	StatusError   ItemStatus = "error"
	StatusSkipped ItemStatus = "skipped"
)

// Result is the outcome of indexing one raw value of a document.
type Result struct {
	field  string
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result.
func NewOK(field string) Result { return Result{field: field, status: StatusOK} }

// NewError creates a failed batch result.
func NewError(field string, err error) Result { return Result{field: field, status: StatusError, err: err} }

// NewSkipped creates a result for a value that was not indexed because the batch aborted.
func NewSkipped(field string, err error) Result {
	return Result{field: field, status: StatusSkipped, err: err}
}

// Field returns the field name of the value.
func (r Result) Field() string { return r.field }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// OK reports whether the value was indexed.
func (r Result) OK() bool { return r.status == StatusOK }

// Failed counts results that are not OK.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.OK() {
			n++
		}
	}
	return n
}
