package internal

// QueryType defines the possible queries for the state machine.
type QueryType uint8

const (
	QueryTLoad QueryType = iota // Retrieve a table by id.
)

func (q QueryType) String() string {
	switch q {
	case QueryTLoad:
		return "Load"
	default:
		return "Unknown"
	}
}

// Query defines the structure for lookup requests (read-only) sent via SyncRead or StaleRead
type Query struct {
	Type    QueryType
	TableID uint64
}

// QueryResult is the result of a QueryTLoad operation.
type QueryResult struct {
	Ok    bool
	Value []byte
}
