package metrics

import "time"

// Result labels the outcome of an operation.
type Result string

const (
	// ResultSuccess marks a completed operation.
	ResultSuccess Result = "success"
	// ResultFailure marks an operation that failed.
	ResultFailure Result = "failure"
	// ResultMissing marks a query for an item without a stored record.
	ResultMissing Result = "missing"
)

// Operation labels the persistence operation.
type Operation string

const (
	// OperationStore is a write of one item record.
	OperationStore Operation = "store"
	// OperationQuery is a read of one item record.
	OperationQuery Operation = "query"
)

// Recorder receives operation outcomes.
type Recorder interface {
	Observe(op Operation, result Result, duration time.Duration)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

// Observe implements Recorder.
func (NoopRecorder) Observe(Operation, Result, time.Duration) {}
