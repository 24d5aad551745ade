package storage

import (
	"context"
	"io"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
)

// LatestResultFetcher returns the latest cached result of a pre-registered query
type LatestResultFetcher interface {
	// LatestResult fetches the most recent result of the query without re-executing it
	LatestResult(ctx context.Context, queryID int) (*models.ResultSet, error)
}

// SQLRunner executes an ad hoc SQL query and returns its rows
type SQLRunner interface {
	// RunSQL executes the statement and waits for its result set
	RunSQL(ctx context.Context, sql string) (*models.ResultSet, error)
}

// QueryRunFetcher returns the results of an existing query run
type QueryRunFetcher interface {
	// QueryRunResults waits for the run to finish and fetches its result set
	QueryRunResults(ctx context.Context, queryRunID string) (*models.ResultSet, error)
}

// Warehouse is a SQL runner backed by a connection that must be closed
type Warehouse interface {
	SQLRunner

	// Ping checks if the warehouse is reachable
	Ping(ctx context.Context) error

	// Close closes the warehouse connection
	io.Closer
}

// Toggles exposes boolean runtime switches
type Toggles interface {
	// Enabled returns the flag value, or def when the flag is unset or unreadable
	Enabled(ctx context.Context, key string, def bool) bool
}
