package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/constants"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/flags"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/normalize"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Default look-back windows of the canned Flipside queries.
const (
	DefaultTransactionDays = 7
	DefaultGovernanceDays  = 30
)

func failed(err error) QueryResult {
	return QueryResult{Success: false, Error: err.Error()}
}

func succeeded(rs *models.ResultSet) QueryResult {
	data := &QueryData{Columns: rs.Columns, Records: rs.Rows, RowCount: len(rs.Rows)}
	if data.Columns == nil {
		data.Columns = []string{}
	}
	if data.Records == nil {
		data.Records = []models.RawRow{}
	}
	return QueryResult{Success: true, Data: data}
}

func checkSQL(sql string) error {
	if strings.TrimSpace(sql) == "" {
		return fmt.Errorf("sql is required")
	}
	if len(sql) > constants.MaxSQLLength {
		return fmt.Errorf("sql exceeds %d characters", constants.MaxSQLLength)
	}
	return nil
}

func (s *Service) runOn(ctx context.Context, runner storage.SQLRunner, source, sql string) QueryResult {
	if err := checkSQL(sql); err != nil {
		return failed(err)
	}

	rs, err := runner.RunSQL(ctx, sql)
	if err != nil {
		s.logger.WithError(err).WithField("source", source).Warn("sql query failed")
		return failed(err)
	}
	return succeeded(rs)
}

// RunSQL executes an ad hoc statement on Flipside.
func (s *Service) RunSQL(ctx context.Context, sql string) QueryResult {
	if !s.enabled(ctx, flags.FlipsideEnabled) {
		return failed(fmt.Errorf("flipside %w", ErrSourceDisabled))
	}
	return s.runOn(ctx, s.cfg.Flipside, SourceFlipside, sql)
}

// RunWarehouseSQL executes a read-only statement on the ClickHouse mirror.
func (s *Service) RunWarehouseSQL(ctx context.Context, sql string) QueryResult {
	if s.cfg.Warehouse == nil {
		return failed(fmt.Errorf("warehouse is not configured"))
	}
	return s.runOn(ctx, s.cfg.Warehouse, "warehouse", sql)
}

// RunQueryByID fetches the results of an existing Flipside query run.
func (s *Service) RunQueryByID(ctx context.Context, queryRunID string) QueryResult {
	if !s.enabled(ctx, flags.FlipsideEnabled) {
		return failed(fmt.Errorf("flipside %w", ErrSourceDisabled))
	}

	rs, err := s.cfg.Flipside.QueryRunResults(ctx, queryRunID)
	if err != nil {
		s.logger.WithError(err).WithField("query_run_id", queryRunID).Warn("query run fetch failed")
		return failed(err)
	}
	return succeeded(rs)
}

// ClampDays keeps a look-back window within 1..MaxQueryDays.
func ClampDays(days int) int {
	if days < 1 {
		return 1
	}
	if days > constants.MaxQueryDays {
		return constants.MaxQueryDays
	}
	return days
}

// TransactionsSQL counts distinct Solana transactions per day.
func TransactionsSQL(days int) string {
	return fmt.Sprintf(`SELECT
  date_trunc('day', block_timestamp) as day,
  count(distinct tx_id) as tx_count
FROM solana.core.fact_transactions
WHERE block_timestamp >= CURRENT_DATE - interval '%d days'
GROUP BY 1
ORDER BY 1 ASC`, ClampDays(days))
}

// GovernanceSQL counts governance program events per day and program.
func GovernanceSQL(days int) string {
	programs := make([]string, 0, len(constants.GovernancePrograms))
	for _, p := range constants.GovernancePrograms {
		programs = append(programs, "'"+p.String()+"'")
	}

	return fmt.Sprintf(`SELECT
  date_trunc('day', block_timestamp) as day,
  program_id,
  count(*) as proposal_count
FROM solana.core.fact_events
WHERE block_timestamp >= CURRENT_DATE - interval '%d days'
  AND program_id IN (%s)
GROUP BY 1, 2
ORDER BY 1 ASC, 3 DESC`, ClampDays(days), strings.Join(programs, ", "))
}

// SolanaDAOTransactions runs the daily transaction count query.
func (s *Service) SolanaDAOTransactions(ctx context.Context, days int) QueryResult {
	return s.RunSQL(ctx, TransactionsSQL(days))
}

// DAOGovernanceProposals runs the governance activity query.
func (s *Service) DAOGovernanceProposals(ctx context.Context, days int) QueryResult {
	return s.RunSQL(ctx, GovernanceSQL(days))
}

// FungiDAOTVL reads the FungiDAO treasury value from its saved query run.
func (s *Service) FungiDAOTVL(ctx context.Context) FungiTVL {
	out := FungiTVL{DAO: constants.FungiDAO}

	res := s.RunQueryByID(ctx, s.cfg.FungiTVLQueryRunID)
	if !res.Success {
		out.Error = res.Error
		return out
	}

	tvl, ok := findTVL(res.Data.Records, constants.FungiDAO)
	if !ok {
		out.Error = "FungiDAO TVL data not found in query results"
		s.logger.WithFields(logrus.Fields{
			"query_run_id": s.cfg.FungiTVLQueryRunID,
			"records":      len(res.Data.Records),
		}).Warn(out.Error)
		return out
	}

	out.Success = true
	out.TVL = &tvl
	out.Formatted = FormatTVL(tvl)
	return out
}

// findTVL returns the TVL of the record whose name column equals dao.
func findTVL(records []models.RawRow, dao string) (decimal.Decimal, bool) {
	for _, rec := range records {
		if !namedAs(rec, dao) {
			continue
		}
		for _, field := range constants.TVLValueFields {
			v, _, ok := normalize.Lookup(rec, []string{field})
			if !ok {
				continue
			}
			if d, ok := toDecimal(v); ok {
				return d, true
			}
		}
		return decimal.Zero, false
	}
	return decimal.Zero, false
}

func namedAs(rec models.RawRow, dao string) bool {
	for _, field := range constants.TVLNameFields {
		if v, _, ok := normalize.Lookup(rec, []string{field}); ok && normalize.ToString(v) == dao {
			return true
		}
	}
	return false
}

// toDecimal parses the textual form first so large amounts keep their digits.
func toDecimal(v any) (decimal.Decimal, bool) {
	if d, err := decimal.NewFromString(strings.TrimSpace(normalize.ToString(v))); err == nil {
		return d, true
	}
	if f, ok := normalize.ToNumber(v); ok {
		return decimal.NewFromFloat(f), true
	}
	return decimal.Zero, false
}
