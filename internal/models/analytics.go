package models

// RawRow is one record of a provider result set. Its keys depend entirely on
// the upstream SQL, so nothing is assumed about them beyond being strings.
type RawRow map[string]any

// ResultSet is the provider-independent shape returned by every query client.
type ResultSet struct {
	Columns  []string       `json:"columnNames"`
	Rows     []RawRow       `json:"rows"`
	RowCount int            `json:"rowCount"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Empty reports whether the result set carries no rows.
func (rs *ResultSet) Empty() bool {
	return rs == nil || len(rs.Rows) == 0
}

// DailyMetric is a single normalized point of a daily series.
type DailyMetric struct {
	Day          string  `json:"day"`          // short label, e.g. "Mar 15"
	OriginalDate string  `json:"originalDate"` // source value, kept verbatim for ordering
	Value        float64 `json:"value"`
}

// DailyProposal is the proposals view of a DailyMetric.
type DailyProposal struct {
	Day          string  `json:"day"`
	OriginalDate string  `json:"originalDate"`
	Proposals    float64 `json:"proposals"`
}

// AsProposal converts the metric into the shape the proposals chart expects.
func (m DailyMetric) AsProposal() DailyProposal {
	return DailyProposal{Day: m.Day, OriginalDate: m.OriginalDate, Proposals: m.Value}
}
