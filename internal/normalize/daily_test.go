package normalize

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/constants"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newProposalNormalizer() *DailyNormalizer {
	return NewDailyNormalizer(constants.ProposalFields, quietLogger())
}

func TestDailyNormalizer_Scenarios(t *testing.T) {
	rs := &models.ResultSet{
		Rows: []models.RawRow{
			{"notes": "see attached"},
			{"DATE": "2025-03-06", "COUNT": "48"},
			{"proposal_creation_time": "2025-03-05T00:00:00Z", "proposals_created": json.Number("52")},
		},
	}

	got := newProposalNormalizer().Proposals(rs)
	require.Len(t, got, 2)
	assert.Equal(t, models.DailyProposal{Day: "Mar 5", OriginalDate: "2025-03-05T00:00:00Z", Proposals: 52}, got[0])
	assert.Equal(t, models.DailyProposal{Day: "Mar 6", OriginalDate: "2025-03-06", Proposals: 48}, got[1])
}

func TestDailyNormalizer_DuneTimestamp(t *testing.T) {
	rs := &models.ResultSet{
		Columns: []string{"proposal_creation_time", "proposals_created"},
		Rows: []models.RawRow{
			{"proposal_creation_time": "2025-03-14 00:00:00.000 UTC", "proposals_created": json.Number("60")},
		},
	}

	got := newProposalNormalizer().Normalize(rs)
	require.Len(t, got, 1)
	assert.Equal(t, "Mar 14", got[0].Day)
	assert.Equal(t, "2025-03-14 00:00:00.000 UTC", got[0].OriginalDate)
	assert.Equal(t, float64(60), got[0].Value)
}

func TestDailyNormalizer_MissingValueDefaultsToZero(t *testing.T) {
	rs := &models.ResultSet{Rows: []models.RawRow{{"day": "2025-03-01", "proposals": "lots"}}}

	got := newProposalNormalizer().Normalize(rs)
	require.Len(t, got, 1)
	assert.Zero(t, got[0].Value)
}

func TestDailyNormalizer_UnparsableDateDropsRow(t *testing.T) {
	rs := &models.ResultSet{Rows: []models.RawRow{
		{"date": "soon", "count": 1},
		{"date": "2025-03-02", "count": 2},
	}}

	got := newProposalNormalizer().Normalize(rs)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-03-02", got[0].OriginalDate)
}

func TestDailyNormalizer_EmptyInput(t *testing.T) {
	n := newProposalNormalizer()

	got := n.Normalize(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = n.Normalize(&models.ResultSet{})
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.NotNil(t, n.Proposals(&models.ResultSet{Rows: []models.RawRow{}}))
}

func TestDailyNormalizer_OutputIsChronological(t *testing.T) {
	rs := &models.ResultSet{Rows: []models.RawRow{
		{"date": "2025-03-10", "count": 3},
		{"date": "03/01/2025", "count": 1},
		{"date": "2025-03-05 00:00:00.000 UTC", "count": 2},
	}}

	got := newProposalNormalizer().Normalize(rs)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Mar 1", "Mar 5", "Mar 10"}, []string{got[0].Day, got[1].Day, got[2].Day})
}

func TestDailyNormalizer_OriginalDateIsVerbatim(t *testing.T) {
	inputs := []string{"2025-03-05T00:00:00Z", "2025/03/06", "Mar 7, 2025", "1741132800000"}
	rows := make([]models.RawRow, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, models.RawRow{"timestamp": in, "count": 1})
	}

	got := newProposalNormalizer().Normalize(&models.ResultSet{Rows: rows})
	require.Len(t, got, len(inputs))
	for _, m := range got {
		assert.Contains(t, inputs, m.OriginalDate)
		ts, ok := ParseDate(m.OriginalDate)
		require.True(t, ok)
		assert.Equal(t, ShortDay(ts), m.Day)
	}
}

// Normalized output carries the short "day" label, which has no year and
// wins the date lookup, so feeding output back in loses every row.
func TestDailyNormalizer_NotIdempotent(t *testing.T) {
	n := newProposalNormalizer()
	first := n.Proposals(&models.ResultSet{Rows: []models.RawRow{
		{"proposal_creation_time": "2025-03-05T00:00:00Z", "proposals_created": 52},
	}})
	require.Len(t, first, 1)

	again := make([]models.RawRow, 0, len(first))
	for _, p := range first {
		again = append(again, models.RawRow{
			"day":          p.Day,
			"originalDate": p.OriginalDate,
			"proposals":    p.Proposals,
		})
	}

	second := n.Proposals(&models.ResultSet{Rows: again})
	assert.Empty(t, second)
	assert.NotEqual(t, first, second)
}
