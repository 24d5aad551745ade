package flipside

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Query run states reported by getQueryRun
const (
	StateReady     = "QUERY_STATE_READY"
	StateRunning   = "QUERY_STATE_RUNNING"
	StateStreaming = "QUERY_STATE_STREAMING_RESULTS"
	StateSuccess   = "QUERY_STATE_SUCCESS"
	StateFailed    = "QUERY_STATE_FAILED"
	StateCanceled  = "QUERY_STATE_CANCELED"
)

// RPCError represents a JSON-RPC error response
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("flipside rpc error %d: %s", e.Code, e.Message)
}

// rpcResponse is the JSON-RPC 2.0 envelope shared by every method
type rpcResponse[T any] struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      int       `json:"id"`
	Result  *T        `json:"result"`
	Error   *RPCError `json:"error"`
}

// CreateQueryRunParams is the single parameter of createQueryRun
type CreateQueryRunParams struct {
	ResultTTLHours int               `json:"resultTTLHours"`
	MaxAgeMinutes  int               `json:"maxAgeMinutes"`
	SQL            string            `json:"sql"`
	Tags           map[string]string `json:"tags,omitempty"`
	DataSource     string            `json:"dataSource"`
	DataProvider   string            `json:"dataProvider"`
}

// QueryRun describes one execution of a SQL statement
type QueryRun struct {
	ID             string `json:"id"`
	State          string `json:"state"`
	SQLStatementID string `json:"sqlStatementId,omitempty"`
	RowCount       *int   `json:"rowCount,omitempty"`
	TotalSize      *int64 `json:"totalSize,omitempty"`
	ErrorName      string `json:"errorName,omitempty"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
	EndedAt        string `json:"endedAt,omitempty"`
}

// Terminal reports whether the run will not change state any more
func (q *QueryRun) Terminal() bool {
	switch q.State {
	case StateSuccess, StateFailed, StateCanceled:
		return true
	}
	return false
}

// QueryRunEnvelope is the result of createQueryRun and getQueryRun
type QueryRunEnvelope struct {
	QueryRun *QueryRun `json:"queryRun"`
}

// Page describes the results page returned by getQueryRunResults
type Page struct {
	CurrentPageNumber int `json:"currentPageNumber"`
	CurrentPageSize   int `json:"currentPageSize"`
	TotalRows         int `json:"totalRows"`
	TotalPages        int `json:"totalPages"`
}

// QueryRunResults is the result of getQueryRunResults
type QueryRunResults struct {
	ColumnNames      []string  `json:"columnNames"`
	ColumnTypes      []string  `json:"columnTypes"`
	Rows             []Row     `json:"rows"`
	Page             *Page     `json:"page"`
	OriginalQueryRun *QueryRun `json:"originalQueryRun,omitempty"`
}

// QueryRunFailedError is returned when a run ends in a non-success state
type QueryRunFailedError struct {
	Run *QueryRun
}

func (e *QueryRunFailedError) Error() string {
	if e.Run.ErrorMessage != "" {
		return fmt.Sprintf("flipside query run %s %s: %s", e.Run.ID, e.Run.State, e.Run.ErrorMessage)
	}
	return fmt.Sprintf("flipside query run %s ended in %s", e.Run.ID, e.Run.State)
}

// Row is one result row. The csv format sends positional arrays matching
// columnNames; the json format sends objects keyed by column.
type Row struct {
	Values []any
	Fields map[string]any
}

func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	switch trimmed := bytes.TrimSpace(data); {
	case len(trimmed) > 0 && trimmed[0] == '[':
		return dec.Decode(&r.Values)
	case len(trimmed) > 0 && trimmed[0] == '{':
		return dec.Decode(&r.Fields)
	case bytes.Equal(trimmed, []byte("null")):
		return nil
	}
	return fmt.Errorf("unexpected row shape: %.32s", data)
}
