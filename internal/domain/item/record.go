package item

import "time"

// Record is the snapshot of one item's state persisted to disk.
type Record struct {
	// Name is the item name the state belongs to.
	Name string
	// State is the persisted value.
	State State
	// Timestamp is when the record was created, with millisecond precision.
	Timestamp time.Time
}

// NewRecord builds a record, truncating the timestamp to milliseconds
// because that is the precision kept on disk.
func NewRecord(name string, state State, timestamp time.Time) Record {
	return Record{
		Name:      name,
		State:     state,
		Timestamp: time.UnixMilli(timestamp.UnixMilli()),
	}
}

// Type returns the type tag of the record's state.
func (r Record) Type() string {
	if r.State == nil {
		return TagString
	}

	return r.State.Kind().Tag()
}

// Historic converts the record into a query sample.
func (r Record) Historic() HistoricItem {
	return HistoricItem{
		Name:      r.Name,
		State:     r.State,
		Timestamp: r.Timestamp,
	}
}

// HistoricItem is a state sample returned by a query.
type HistoricItem struct {
	// Name is the item name.
	Name string
	// State is the sampled value.
	State State
	// Timestamp is when the value was stored.
	Timestamp time.Time
}

// Ordering is the requested sort order of query results.
type Ordering uint8

const (
	// OrderingDescending returns the newest samples first.
	OrderingDescending Ordering = iota
	// OrderingAscending returns the oldest samples first.
	OrderingAscending
)

// FilterCriteria describes a query.
// The flat-file store keeps only the latest sample per item, so everything
// except ItemName is accepted and ignored.
type FilterCriteria struct {
	// ItemName selects the item to query.
	ItemName string
	// BeginDate is the lower bound of the requested time range.
	BeginDate time.Time
	// EndDate is the upper bound of the requested time range.
	EndDate time.Time
	// PageNumber is the zero-based result page.
	PageNumber int
	// PageSize is the number of samples per page.
	PageSize int
	// Ordering is the requested sort order.
	Ordering Ordering
}
