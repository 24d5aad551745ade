package analytics

import (
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

// peakWindow is how many days either side of the peak are returned.
const peakWindow = 2

// Summary holds the figures shown next to the proposals chart.
type Summary struct {
	Total       float64     `json:"total"`
	Average     float64     `json:"average"`
	Min         float64     `json:"min"`
	Max         float64     `json:"max"`
	Peak        *PeakDay    `json:"peak,omitempty"`
	WeeklyTrend WeeklyTrend `json:"weeklyTrend"`
}

// PeakDay is the busiest day and its neighbours.
type PeakDay struct {
	Day       string                 `json:"day"`
	Proposals float64                `json:"proposals"`
	Window    []models.DailyProposal `json:"window"`
}

// WeeklyTrend compares the last seven days with the seven before them.
// PercentChange is nil when the previous week had no proposals.
type WeeklyTrend struct {
	LastWeek      float64  `json:"lastWeek"`
	PreviousWeek  float64  `json:"previousWeek"`
	PercentChange *float64 `json:"percentChange"`
	Increasing    bool     `json:"increasing"`
}

func round1(f float64) float64 {
	return decimal.NewFromFloat(f).Round(1).InexactFloat64()
}

func sum(days []models.DailyProposal) float64 {
	var total float64
	for _, d := range days {
		total += d.Proposals
	}
	return total
}

// Summarize computes the summary cards of a chronologically ordered series.
func Summarize(days []models.DailyProposal) Summary {
	var s Summary
	if len(days) == 0 {
		return s
	}

	s.Total = sum(days)
	s.Average = round1(s.Total / float64(len(days)))

	peak := 0
	s.Min, s.Max = days[0].Proposals, days[0].Proposals
	for i, d := range days {
		if d.Proposals < s.Min {
			s.Min = d.Proposals
		}
		if d.Proposals > s.Max {
			s.Max = d.Proposals
			peak = i
		}
	}

	lo, hi := max(0, peak-peakWindow), min(len(days), peak+peakWindow+1)
	s.Peak = &PeakDay{
		Day:       days[peak].Day,
		Proposals: days[peak].Proposals,
		Window:    append([]models.DailyProposal(nil), days[lo:hi]...),
	}

	n := len(days)
	last := days[max(0, n-7):]
	prev := days[max(0, n-14):max(0, n-7)]
	s.WeeklyTrend.LastWeek = sum(last)
	s.WeeklyTrend.PreviousWeek = sum(prev)
	s.WeeklyTrend.Increasing = s.WeeklyTrend.LastWeek > s.WeeklyTrend.PreviousWeek
	if s.WeeklyTrend.PreviousWeek > 0 {
		pct := round1((s.WeeklyTrend.LastWeek - s.WeeklyTrend.PreviousWeek) / s.WeeklyTrend.PreviousWeek * 100)
		s.WeeklyTrend.PercentChange = &pct
	}
	return s
}
