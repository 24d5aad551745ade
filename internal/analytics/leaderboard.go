package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/constants"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

// Leaderboard sort fields.
const (
	SortMembers   = "members"
	SortVotes     = "votes"
	SortProposals = "proposals"
	SortTVL       = "tvl"
)

var (
	billion = decimal.NewFromInt(1_000_000_000)
	million = decimal.NewFromInt(1_000_000)
)

func compareBy(field string) (func(a, b models.DAODetail) int, error) {
	ints := func(get func(models.DAODetail) int64) func(a, b models.DAODetail) int {
		return func(a, b models.DAODetail) int {
			x, y := get(a), get(b)
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}

	switch field {
	case "", SortMembers:
		return ints(func(d models.DAODetail) int64 { return d.Members }), nil
	case SortVotes:
		return ints(func(d models.DAODetail) int64 { return d.Votes }), nil
	case SortProposals:
		return ints(func(d models.DAODetail) int64 { return d.Proposals }), nil
	case SortTVL:
		return func(a, b models.DAODetail) int { return a.TVL.Cmp(b.TVL) }, nil
	}
	return nil, fmt.Errorf("unknown sort field %q", field)
}

// Leaderboard returns the tracked DAOs ordered by field. direction is "asc"
// or "desc"; the default is members descending. Ties keep display order.
func (s *Service) Leaderboard(field, direction string) ([]models.DAODetail, error) {
	cmp, err := compareBy(strings.ToLower(strings.TrimSpace(field)))
	if err != nil {
		return nil, err
	}

	desc := true
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		return nil, fmt.Errorf("unknown sort direction %q", direction)
	}

	out := append([]models.DAODetail{}, s.cfg.DAODetails...)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return cmp(out[i], out[j]) > 0
		}
		return cmp(out[i], out[j]) < 0
	})
	return out, nil
}

// TopByTVL returns the n DAOs holding the most value, clamped to 1..MaxTopDAOs.
func (s *Service) TopByTVL(n int) []models.DAODetail {
	if n < 1 {
		n = 1
	}
	if n > constants.MaxTopDAOs {
		n = constants.MaxTopDAOs
	}

	out, _ := s.Leaderboard(SortTVL, "desc")
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// DAO looks a tracked DAO up by name, ignoring case.
func (s *Service) DAO(name string) (models.DAODetail, bool) {
	name = strings.TrimSpace(name)
	for _, d := range s.cfg.DAODetails {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return models.DAODetail{}, false
}

// TotalTVL sums the value held by every tracked DAO.
func (s *Service) TotalTVL() TVLTotal {
	total := decimal.Zero
	for _, d := range s.cfg.DAODetails {
		total = total.Add(d.TVL)
	}
	return TVLTotal{Total: total, Formatted: FormatTVL(total)}
}

// FormatTVL renders a value as "1.2B", "77.9M" or a comma grouped amount.
func FormatTVL(d decimal.Decimal) string {
	switch {
	case d.GreaterThanOrEqual(billion):
		return d.Div(billion).StringFixed(1) + "B"
	case d.GreaterThanOrEqual(million):
		return d.Div(million).StringFixed(1) + "M"
	}

	text := d.Round(3).String()
	sign := ""
	if strings.HasPrefix(text, "-") {
		sign, text = "-", text[1:]
	}
	whole, frac, _ := strings.Cut(text, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		return sign + b.String() + "." + frac
	}
	return sign + b.String()
}
