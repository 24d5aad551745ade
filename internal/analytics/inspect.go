package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/constants"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/dune"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
)

// InspectPayload is a truncated view of a saved query result.
type InspectPayload struct {
	ColumnNames []string        `json:"columnNames"`
	SampleRows  []models.RawRow `json:"sampleRows"`
	RowCount    int             `json:"rowCount"`
}

// DebugPayload mirrors the result envelope with only the first few rows.
type DebugPayload struct {
	Metadata dune.ExecutionInfo `json:"metadata"`
	Result   DebugResult        `json:"result"`
}

type DebugResult struct {
	Rows     []models.RawRow      `json:"rows"`
	Metadata *dune.ResultMetadata `json:"metadata,omitempty"`
}

// SamplePayload previews rows with long strings summarised.
type SamplePayload struct {
	Success     bool            `json:"success"`
	ColumnNames []string        `json:"columnNames"`
	SampleData  []models.RawRow `json:"sampleData"`
	RowCount    int             `json:"rowCount"`
}

func (s *Service) latestWithRows(ctx context.Context, queryID int) (*dune.LatestResultResponse, error) {
	res, err := s.cfg.Dune.GetLatestResult(ctx, queryID)
	if err != nil {
		return nil, err
	}
	if !res.HasRows() {
		return nil, dune.ErrNoResult
	}
	return res, nil
}

// InspectDuneQuery samples the newest DAOs query: column names from the
// result metadata, the first rows with long strings cut, and the row count.
func (s *Service) InspectDuneQuery(ctx context.Context) (*InspectPayload, error) {
	res, err := s.latestWithRows(ctx, s.cfg.NewestDAOsQueryID)
	if err != nil {
		return nil, err
	}

	out := &InspectPayload{
		ColumnNames: []string{},
		RowCount:    len(res.Result.Rows),
	}
	if md := res.Result.Metadata; md != nil && md.ColumnNames != nil {
		out.ColumnNames = md.ColumnNames
	}

	rows := res.Result.Rows[:min(len(res.Result.Rows), constants.InspectSampleRows)]
	out.SampleRows = make([]models.RawRow, 0, len(rows))
	for _, row := range rows {
		out.SampleRows = append(out.SampleRows, mapStrings(row, truncate))
	}
	return out, nil
}

// DebugDuneQuery returns the execution metadata and the first rows of any
// saved query.
func (s *Service) DebugDuneQuery(ctx context.Context, queryID int) (*DebugPayload, error) {
	res, err := s.cfg.Dune.GetLatestResult(ctx, queryID)
	if err != nil {
		return nil, err
	}

	out := &DebugPayload{
		Metadata: res.Execution(),
		Result:   DebugResult{Rows: []models.RawRow{}},
	}
	if res.Result != nil {
		rows := res.Result.Rows
		out.Result.Rows = append(out.Result.Rows, rows[:min(len(rows), constants.DebugSampleRows)]...)
		out.Result.Metadata = res.Result.Metadata
	}
	return out, nil
}

// SampleDuneQuery previews the newest DAOs query with long strings
// replaced by their prefix and length.
func (s *Service) SampleDuneQuery(ctx context.Context) (*SamplePayload, error) {
	res, err := s.latestWithRows(ctx, s.cfg.NewestDAOsQueryID)
	if err != nil {
		return nil, err
	}

	rows := res.Result.Rows
	out := &SamplePayload{
		Success:     true,
		ColumnNames: []string{},
		SampleData:  []models.RawRow{},
		RowCount:    len(rows),
	}
	if len(rows) == 0 {
		return out, nil
	}

	for k := range rows[0] {
		out.ColumnNames = append(out.ColumnNames, k)
	}
	sort.Strings(out.ColumnNames)

	for _, row := range rows[:min(len(rows), constants.PreviewSampleRows)] {
		preview := make(models.RawRow, len(out.ColumnNames))
		for _, col := range out.ColumnNames {
			v := row[col]
			if str, ok := v.(string); ok {
				v = previewString(str)
			}
			preview[col] = v
		}
		out.SampleData = append(out.SampleData, preview)
	}
	return out, nil
}

func mapStrings(row models.RawRow, fn func(string) string) models.RawRow {
	out := make(models.RawRow, len(row))
	for k, v := range row {
		if str, ok := v.(string); ok {
			out[k] = fn(str)
			continue
		}
		out[k] = v
	}
	return out
}

// truncate cuts strings longer than InspectMaxStringLen characters.
func truncate(str string) string {
	r := []rune(str)
	if len(r) <= constants.InspectMaxStringLen {
		return str
	}
	return string(r[:constants.InspectMaxStringLen]) + "..."
}

func previewString(str string) string {
	r := []rune(str)
	if len(r) <= constants.PreviewMaxStringLen {
		return str
	}
	return fmt.Sprintf("%s... (%d chars)", string(r[:constants.PreviewMaxStringLen]), len(r))
}
