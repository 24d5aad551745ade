package analytics

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/dune"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/fallback"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	proposalsQuery  = 5065223
	newestDAOsQuery = 4789765
	fungiRunID      = "1bd04384-6f5e-4c3a-b31f-157dde736751"
)

type fakeDune struct {
	results map[int]*dune.LatestResultResponse
	err     error
	calls   atomic.Int32
}

func (f *fakeDune) GetLatestResult(_ context.Context, queryID int) (*dune.LatestResultResponse, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if res, ok := f.results[queryID]; ok {
		return res, nil
	}
	return &dune.LatestResultResponse{QueryID: queryID, State: "QUERY_STATE_PENDING"}, nil
}

func (f *fakeDune) LatestResult(ctx context.Context, queryID int) (*models.ResultSet, error) {
	res, err := f.GetLatestResult(ctx, queryID)
	if err != nil {
		return nil, err
	}
	if !res.HasRows() {
		return nil, dune.ErrNoResult
	}
	return res.ResultSet(), nil
}

func duneRows(columns []string, rows ...models.RawRow) *dune.LatestResultResponse {
	if rows == nil {
		rows = []models.RawRow{}
	}
	return &dune.LatestResultResponse{
		ExecutionID: "01HX",
		State:       "QUERY_STATE_COMPLETED",
		Result: &dune.QueryResult{
			Rows:     rows,
			Metadata: &dune.ResultMetadata{ColumnNames: columns, RowCount: len(rows)},
		},
	}
}

type fakeFlipside struct {
	mu      sync.Mutex
	sql     []string
	runs    map[string]*models.ResultSet
	results *models.ResultSet
	err     error
}

func (f *fakeFlipside) RunSQL(_ context.Context, sql string) (*models.ResultSet, error) {
	f.mu.Lock()
	f.sql = append(f.sql, sql)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeFlipside) QueryRunResults(_ context.Context, id string) (*models.ResultSet, error) {
	if f.err != nil {
		return nil, f.err
	}
	if rs, ok := f.runs[id]; ok {
		return rs, nil
	}
	return &models.ResultSet{Rows: []models.RawRow{}}, nil
}

func (f *fakeFlipside) statements() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sql...)
}

type fakeToggles map[string]bool

func (t fakeToggles) Enabled(_ context.Context, key string, def bool) bool {
	if v, ok := t[key]; ok {
		return v
	}
	return def
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(t *testing.T, d *fakeDune, f *fakeFlipside, toggles fakeToggles) *Service {
	t.Helper()
	if d == nil {
		d = &fakeDune{}
	}
	if f == nil {
		f = &fakeFlipside{}
	}

	cfg := Config{
		Dune:               d,
		Flipside:           f,
		ProposalsQueryID:   proposalsQuery,
		NewestDAOsQueryID:  newestDAOsQuery,
		FungiTVLQueryRunID: fungiRunID,
		FallbackProposals:  fallback.Proposals(),
		FallbackDAOs:       fallback.NewestDAOs(),
		DAODetails:         fallback.DAODetails(),
		Growth:             fallback.Growth(),
		Logger:             quietLogger(),
	}
	if toggles != nil {
		cfg.Toggles = toggles
	}

	svc, err := NewService(cfg)
	require.NoError(t, err)
	return svc
}
