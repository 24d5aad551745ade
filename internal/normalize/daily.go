package normalize

import (
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/constants"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/sirupsen/logrus"
)

// DailyNormalizer maps provider rows to one metric per day.
type DailyNormalizer struct {
	ValueFields []string
	logger      *logrus.Logger
}

// NewDailyNormalizer creates a normalizer reading values from valueFields.
// Rejected rows are reported at warn level.
func NewDailyNormalizer(valueFields []string, logger *logrus.Logger) *DailyNormalizer {
	if logger == nil {
		logger = logrus.New()
	}
	if len(valueFields) == 0 {
		valueFields = constants.ProposalFields
	}
	return &DailyNormalizer{ValueFields: valueFields, logger: logger}
}

// NormalizeRow converts a single row. ok is false when the row has no usable date.
func (n *DailyNormalizer) NormalizeRow(row models.RawRow, columns []string) (models.DailyMetric, bool) {
	raw, ok := ExtractDate(row, columns)
	if !ok {
		return models.DailyMetric{}, false
	}
	t, ok := ParseDate(raw)
	if !ok {
		return models.DailyMetric{}, false
	}
	return models.DailyMetric{
		Day:          ShortDay(t),
		OriginalDate: raw,
		Value:        ExtractNumber(row, n.ValueFields),
	}, true
}

// Normalize converts every row of rs, drops the ones without a usable date and
// returns the rest in chronological order. The result is never nil.
func (n *DailyNormalizer) Normalize(rs *models.ResultSet) []models.DailyMetric {
	out := []models.DailyMetric{}
	if rs == nil {
		return out
	}

	dropped := 0
	for i, row := range rs.Rows {
		m, ok := n.NormalizeRow(row, rs.Columns)
		if !ok {
			dropped++
			n.logger.WithFields(logrus.Fields{
				"row":  i,
				"keys": len(row),
			}).Warn("skipping row without a usable date")
			continue
		}
		out = append(out, m)
	}

	if dropped > 0 {
		n.logger.WithFields(logrus.Fields{
			"kept":    len(out),
			"dropped": dropped,
		}).Debug("normalized daily rows")
	}

	SortChronological(out)
	return out
}

// Proposals is Normalize projected onto the proposals view.
func (n *DailyNormalizer) Proposals(rs *models.ResultSet) []models.DailyProposal {
	metrics := n.Normalize(rs)
	out := make([]models.DailyProposal, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, m.AsProposal())
	}
	return out
}
