package dune

import "github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"

// LatestResultResponse is the envelope of GET /query/{id}/results.
type LatestResultResponse struct {
	ExecutionID         string       `json:"execution_id"`
	QueryID             int          `json:"query_id"`
	IsExecutionFinished bool         `json:"is_execution_finished"`
	State               string       `json:"state"`
	SubmittedAt         string       `json:"submitted_at,omitempty"`
	ExpiresAt           string       `json:"expires_at,omitempty"`
	ExecutionStartedAt  string       `json:"execution_started_at,omitempty"`
	ExecutionEndedAt    string       `json:"execution_ended_at,omitempty"`
	Result              *QueryResult `json:"result,omitempty"`
	NextOffset          *int         `json:"next_offset,omitempty"`
	NextURI             string       `json:"next_uri,omitempty"`
}

// QueryResult holds the rows of an execution.
type QueryResult struct {
	Rows     []models.RawRow `json:"rows"`
	Metadata *ResultMetadata `json:"metadata,omitempty"`
}

// ResultMetadata describes the result set columns and size.
type ResultMetadata struct {
	ColumnNames         []string `json:"column_names"`
	ColumnTypes         []string `json:"column_types,omitempty"`
	RowCount            int      `json:"row_count"`
	ResultSetBytes      int64    `json:"result_set_bytes,omitempty"`
	TotalRowCount       int      `json:"total_row_count,omitempty"`
	TotalResultSetBytes int64    `json:"total_result_set_bytes,omitempty"`
	DatapointCount      int64    `json:"datapoint_count,omitempty"`
	PendingTimeMillis   int64    `json:"pending_time_millis,omitempty"`
	ExecutionTimeMillis int64    `json:"execution_time_millis,omitempty"`
}

// ExecutionInfo is the envelope without its rows.
type ExecutionInfo struct {
	ExecutionID         string `json:"execution_id"`
	QueryID             int    `json:"query_id"`
	IsExecutionFinished bool   `json:"is_execution_finished"`
	State               string `json:"state"`
	SubmittedAt         string `json:"submitted_at,omitempty"`
	ExpiresAt           string `json:"expires_at,omitempty"`
	ExecutionStartedAt  string `json:"execution_started_at,omitempty"`
	ExecutionEndedAt    string `json:"execution_ended_at,omitempty"`
}

// Execution returns the execution fields of the envelope.
func (r *LatestResultResponse) Execution() ExecutionInfo {
	return ExecutionInfo{
		ExecutionID:         r.ExecutionID,
		QueryID:             r.QueryID,
		IsExecutionFinished: r.IsExecutionFinished,
		State:               r.State,
		SubmittedAt:         r.SubmittedAt,
		ExpiresAt:           r.ExpiresAt,
		ExecutionStartedAt:  r.ExecutionStartedAt,
		ExecutionEndedAt:    r.ExecutionEndedAt,
	}
}

// HasRows reports whether the envelope carries a rows array (possibly empty).
func (r *LatestResultResponse) HasRows() bool {
	return r != nil && r.Result != nil && r.Result.Rows != nil
}

// ResultSet converts the envelope into the provider-independent shape.
func (r *LatestResultResponse) ResultSet() *models.ResultSet {
	rs := &models.ResultSet{}
	if !r.HasRows() {
		return rs
	}
	rs.Rows = r.Result.Rows
	rs.RowCount = len(r.Result.Rows)
	if md := r.Result.Metadata; md != nil {
		rs.Columns = md.ColumnNames
		rs.Metadata = map[string]any{
			"column_types":          md.ColumnTypes,
			"row_count":             md.RowCount,
			"total_row_count":       md.TotalRowCount,
			"execution_time_millis": md.ExecutionTimeMillis,
		}
	}
	return rs
}
