package normalize

import (
	"slices"
	"strings"
	"time"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
)

type datedMetric struct {
	metric models.DailyMetric
	at     time.Time
	parsed bool
}

// compareDated is the pairwise rule: two parseable dates compare by instant,
// any other pair by the raw string. It is not transitive over mixed input,
// so it is only applied between the heads of two already sorted runs.
func compareDated(a, b datedMetric) int {
	if a.parsed && b.parsed {
		return a.at.Compare(b.at)
	}
	return strings.Compare(a.metric.OriginalDate, b.metric.OriginalDate)
}

// SortChronological orders metrics by originalDate, in place and stably.
// Parseable dates are sorted by instant, the rest lexicographically, and
// the two runs are merged with the pairwise rule. Duplicate days are kept.
func SortChronological(metrics []models.DailyMetric) {
	if len(metrics) < 2 {
		return
	}

	var parsed, raw []datedMetric
	for _, m := range metrics {
		if at, ok := ParseDate(m.OriginalDate); ok {
			parsed = append(parsed, datedMetric{metric: m, at: at, parsed: true})
		} else {
			raw = append(raw, datedMetric{metric: m})
		}
	}

	slices.SortStableFunc(parsed, func(a, b datedMetric) int { return a.at.Compare(b.at) })
	slices.SortStableFunc(raw, func(a, b datedMetric) int {
		return strings.Compare(a.metric.OriginalDate, b.metric.OriginalDate)
	})

	i, j := 0, 0
	for k := range metrics {
		// ties go to the parseable run
		if j == len(raw) || (i < len(parsed) && compareDated(parsed[i], raw[j]) <= 0) {
			metrics[k] = parsed[i].metric
			i++
			continue
		}
		metrics[k] = raw[j].metric
		j++
	}
}
