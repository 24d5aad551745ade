package normalize

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metrics(dates ...string) []models.DailyMetric {
	out := make([]models.DailyMetric, 0, len(dates))
	for i, d := range dates {
		out = append(out, models.DailyMetric{OriginalDate: d, Value: float64(i)})
	}
	return out
}

func originalDates(ms []models.DailyMetric) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.OriginalDate)
	}
	return out
}

func TestSortChronological_Trivial(t *testing.T) {
	var empty []models.DailyMetric
	SortChronological(empty)
	assert.Empty(t, empty)

	one := metrics("whenever")
	SortChronological(one)
	assert.Equal(t, []string{"whenever"}, originalDates(one))
}

func TestSortChronological_ByInstantAcrossFormats(t *testing.T) {
	ms := metrics("03/01/2025", "2025-02-28", "2025-03-01 12:00:00.000 UTC", "Feb 27, 2025")
	SortChronological(ms)
	assert.Equal(t, []string{"Feb 27, 2025", "2025-02-28", "03/01/2025", "2025-03-01 12:00:00.000 UTC"}, originalDates(ms))
}

func TestSortChronological_AllUnparsableIsLexicographic(t *testing.T) {
	ms := metrics("week 3", "week 1", "week 2")
	SortChronological(ms)
	assert.Equal(t, []string{"week 1", "week 2", "week 3"}, originalDates(ms))
}

func TestSortChronological_Mixed(t *testing.T) {
	ms := metrics("zzz", "2025-03-02", "yyy", "2025-03-01")
	SortChronological(ms)
	assert.Equal(t, []string{"2025-03-01", "2025-03-02", "yyy", "zzz"}, originalDates(ms))
}

func TestSortChronological_MixedTerminates(t *testing.T) {
	ms := metrics("b", "03/02/2025", "a", "2025-03-01", "Mar 1", "1741132800000", "", "2025/01/09")
	want := originalDates(ms)

	SortChronological(ms)
	assert.ElementsMatch(t, want, originalDates(ms))
	assertMixedOrder(t, ms)
}

// assertMixedOrder checks both partitions of a sorted mixed series: the
// parseable dates never go back in time and the rest are lexicographic.
func assertMixedOrder(t *testing.T, ms []models.DailyMetric) {
	t.Helper()
	var last time.Time
	seenParsed := false
	lastRaw := ""
	seenRaw := false
	for _, m := range ms {
		if at, ok := ParseDate(m.OriginalDate); ok {
			if seenParsed {
				assert.False(t, at.Before(last), "%q out of order in %q", m.OriginalDate, originalDates(ms))
			}
			last, seenParsed = at, true
			continue
		}
		if seenRaw {
			assert.LessOrEqual(t, lastRaw, m.OriginalDate, "%q out of order in %q", m.OriginalDate, originalDates(ms))
		}
		lastRaw, seenRaw = m.OriginalDate, true
	}
}

func TestSortChronological_MixedPartitionsStaySorted(t *testing.T) {
	pool := []string{
		"a", "b", "K", "M", "zz", "week 2", "",
		"Mar 1, 2025", "2025-03-01", "Jan 9, 2026", "12/01/2024", "2024-12-31", "2025/01/09",
	}
	rng := rand.New(rand.NewSource(11))

	for round := 0; round < 500; round++ {
		dates := make([]string, 1+rng.Intn(12))
		for i := range dates {
			dates[i] = pool[rng.Intn(len(pool))]
		}
		ms := metrics(dates...)
		SortChronological(ms)

		require.ElementsMatch(t, dates, originalDates(ms))
		assertMixedOrder(t, ms)
	}
}

func TestSortChronological_MixedExample(t *testing.T) {
	ms := metrics("M", "Jan 9, 2026", "K", "12/01/2024", "Mar 1, 2025", "M", "2024-12-31")
	SortChronological(ms)
	assert.Equal(t,
		[]string{"12/01/2024", "2024-12-31", "K", "M", "M", "Mar 1, 2025", "Jan 9, 2026"},
		originalDates(ms))
}

func TestSortChronological_KeepsDuplicatesInInputOrder(t *testing.T) {
	ms := metrics("2025-03-02", "2025-03-01", "2025-03-01T00:00:00Z")
	SortChronological(ms)

	require.Len(t, ms, 3)
	assert.Equal(t, "2025-03-01", ms[0].OriginalDate)
	assert.Equal(t, "2025-03-01T00:00:00Z", ms[1].OriginalDate)
	assert.Equal(t, "2025-03-02", ms[2].OriginalDate)
}

func TestSortChronological_NonDecreasing(t *testing.T) {
	layouts := []string{time.RFC3339, "2006-01-02", "2006/01/02", "01/02/2006", "Jan 2, 2006"}
	rng := rand.New(rand.NewSource(7))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for round := 0; round < 20; round++ {
		dates := make([]string, 0, 40)
		for i := 0; i < 40; i++ {
			at := base.AddDate(0, 0, rng.Intn(500))
			dates = append(dates, at.Format(layouts[rng.Intn(len(layouts))]))
		}
		ms := metrics(dates...)
		SortChronological(ms)

		for i := 1; i < len(ms); i++ {
			prev, ok := ParseDate(ms[i-1].OriginalDate)
			require.True(t, ok)
			cur, ok := ParseDate(ms[i].OriginalDate)
			require.True(t, ok)
			assert.False(t, cur.Before(prev), fmt.Sprintf("round %d: %s before %s", round, ms[i].OriginalDate, ms[i-1].OriginalDate))
		}
	}
}
