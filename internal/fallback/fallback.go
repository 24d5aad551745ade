// Package fallback holds the static datasets served when the analytics
// providers are unavailable. Every accessor returns a fresh copy.
package fallback

import (
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

// Proposals is a fourteen day series of governance proposals.
func Proposals() []models.DailyProposal {
	counts := []float64{42, 38, 45, 39, 52, 48, 55, 51, 49, 63, 59, 47, 55, 60}
	days := []struct{ day, date string }{
		{"Mar 1", "2025-03-01"}, {"Mar 2", "2025-03-02"}, {"Mar 3", "2025-03-03"},
		{"Mar 4", "2025-03-04"}, {"Mar 5", "2025-03-05"}, {"Mar 6", "2025-03-06"},
		{"Mar 7", "2025-03-07"}, {"Mar 8", "2025-03-08"}, {"Mar 9", "2025-03-09"},
		{"Mar 10", "2025-03-10"}, {"Mar 11", "2025-03-11"}, {"Mar 12", "2025-03-12"},
		{"Mar 13", "2025-03-13"}, {"Mar 14", "2025-03-14"},
	}

	out := make([]models.DailyProposal, len(days))
	for i, d := range days {
		out[i] = models.DailyProposal{Day: d.day, OriginalDate: d.date, Proposals: counts[i]}
	}
	return out
}

// NewestDAOs is the listing shown when the newest-realms query fails.
func NewestDAOs() []models.DAO {
	rows := []struct {
		name      string
		hasToken  bool
		proposals float64
		members   float64
	}{
		{"Jupiter", true, 12, 345},
		{"Kamino", true, 8, 156},
		{"Drift", true, 15, 278},
		{"Zeta", false, 3, 89},
		{"Parcl", false, 5, 124},
		{"Marinade", true, 21, 412},
		{"Mango", true, 18, 367},
		{"Solend", true, 14, 298},
		{"Orca", true, 11, 245},
		{"Raydium", true, 9, 189},
		{"Pyth", true, 7, 176},
		{"Squads", false, 4, 112},
		{"Serum", true, 16, 321},
		{"Metaplex", true, 10, 234},
		{"Aurory", true, 6, 145},
	}

	out := make([]models.DAO, len(rows))
	for i, r := range rows {
		proposals, members := r.proposals, r.members
		out[i] = models.DAO{
			Name:          r.name,
			HasToken:      r.hasToken,
			ProposalCount: &proposals,
			MemberCount:   &members,
		}
	}
	return out
}

func detail(name, description string, members, votes, proposals, tvl int64) models.DAODetail {
	return models.DAODetail{
		Name:        name,
		Description: description,
		Members:     members,
		Votes:       votes,
		Proposals:   proposals,
		TVL:         decimal.NewFromInt(tvl),
	}
}

// DAODetails is the tracked DAO leaderboard, in display order.
func DAODetails() []models.DAODetail {
	return []models.DAODetail{
		detail("BonkDAO", "BonkDAO governs the Bonk ecosystem on Solana.", 14805, 25398, 82, 77965829),
		detail("MonarkDAO", "MonarkDAO governs the Monark ecosystem on Solana.", 9, 20, 5, 0),
		detail("Grape", "Grape Protocol DAO governance.", 346, 5237, 255, 963428),
		detail("Mango", "Mango Markets DAO governance.", 321, 5676, 963, 22814324),
		detail("Solend", "Solend Protocol DAO governance.", 303, 508, 13, 0),
		detail("DeanListNetwork", "DeanList Network DAO governance.", 247, 4594, 321, 85060),
		detail("Adrena DAO", "Adrena Protocol DAO governance.", 139, 731, 107, 195365),
		detail("Sol Man", "Sol Man DAO governance.", 69, 360, 25, 32680),
		detail("MonkeDAO", "MonkeDAO governance.", 34, 2855, 553, 60860),
		detail("Realms Ecosystem DAO", "Realms Ecosystem DAO governance.", 30, 163, 33, 139715),
		detail("FungiDAO", "FungiDAO governance.", 9, 20, 5, 17159),
		detail("TheExiledApes", "The Exiled Apes DAO governance.", 5, 112, 42, 0),
		detail("Metaplex Foundation", "Metaplex Foundation DAO governance.", 3, 131, 49, 0),
		detail("Metaplex Genesis", "Metaplex Genesis DAO governance.", 3, 48, 18, 0),
		detail("Jito", "Jito Protocol DAO governance.", 86, 0, 40, 574619195),
		detail("Metaplex DAO", "Metaplex DAO governance.", 130, 0, 27, 58175361),
		detail("DL Metaplex Grants", "DL Metaplex Grants DAO governance.", 42, 187, 31, 245680),
		detail("Pyth Network", "Pyth Network DAO governance for the oracle protocol.", 156, 892, 67, 406543),
		detail("The $GREED Experiment", "The $GREED Experiment DAO governance.", 78, 423, 29, 15118),
		detail("SolBlaze DAO", "SolBlaze DAO governance for the SolBlaze ecosystem.", 63, 315, 22, 411622),
		detail("Marinade", "Marinade DAO governance for the liquid staking protocol.", 189, 1245, 83, 68743492),
	}
}

// Growth is the monthly count of newly created DAOs.
func Growth() []models.GrowthPoint {
	return []models.GrowthPoint{
		{Month: "May 2025", NewDAOs: 151, TotalDAOs: 151},
		{Month: "June 2025", NewDAOs: 44, TotalDAOs: 195},
		{Month: "July 2025", NewDAOs: 34, TotalDAOs: 229},
	}
}
