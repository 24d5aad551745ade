package analytics

import (
	"testing"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/fallback"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(values ...float64) []models.DailyProposal {
	out := make([]models.DailyProposal, len(values))
	for i, v := range values {
		out[i] = models.DailyProposal{Day: "d" + string(rune('a'+i)), Proposals: v}
	}
	return out
}

func TestSummarize_FallbackSeries(t *testing.T) {
	s := Summarize(fallback.Proposals())

	assert.Equal(t, float64(703), s.Total)
	assert.Equal(t, 50.2, s.Average)
	assert.Equal(t, float64(38), s.Min)
	assert.Equal(t, float64(63), s.Max)

	require.NotNil(t, s.Peak)
	assert.Equal(t, "Mar 10", s.Peak.Day)
	assert.Equal(t, float64(63), s.Peak.Proposals)
	require.Len(t, s.Peak.Window, 5)
	assert.Equal(t, "Mar 8", s.Peak.Window[0].Day)
	assert.Equal(t, "Mar 12", s.Peak.Window[4].Day)

	assert.Equal(t, float64(384), s.WeeklyTrend.LastWeek)
	assert.Equal(t, float64(319), s.WeeklyTrend.PreviousWeek)
	require.NotNil(t, s.WeeklyTrend.PercentChange)
	assert.Equal(t, 20.4, *s.WeeklyTrend.PercentChange)
	assert.True(t, s.WeeklyTrend.Increasing)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Total)
	assert.Nil(t, s.Peak)
	assert.Nil(t, s.WeeklyTrend.PercentChange)
}

func TestSummarize_PeakAtEdgeAndFirstMaxWins(t *testing.T) {
	s := Summarize(series(9, 1, 9, 2))
	require.NotNil(t, s.Peak)
	assert.Equal(t, "da", s.Peak.Day)
	assert.Len(t, s.Peak.Window, 3)
}

func TestSummarize_ShortSeriesHasNoPreviousWeek(t *testing.T) {
	s := Summarize(series(3, 4, 5))
	assert.Equal(t, float64(12), s.WeeklyTrend.LastWeek)
	assert.Zero(t, s.WeeklyTrend.PreviousWeek)
	assert.Nil(t, s.WeeklyTrend.PercentChange)
	assert.True(t, s.WeeklyTrend.Increasing)
	assert.Equal(t, 4.0, s.Average)
}

func TestSummarize_PartialPreviousWeek(t *testing.T) {
	// ten days: the previous week is only the first three
	s := Summarize(series(1, 1, 2, 1, 1, 1, 1, 1, 1, 1))
	assert.Equal(t, float64(7), s.WeeklyTrend.LastWeek)
	assert.Equal(t, float64(4), s.WeeklyTrend.PreviousWeek)
	require.NotNil(t, s.WeeklyTrend.PercentChange)
	assert.Equal(t, 75.0, *s.WeeklyTrend.PercentChange)
}
