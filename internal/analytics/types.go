package analytics

import (
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

// Where a dataset came from.
const (
	SourceDune     = "dune"
	SourceFlipside = "flipside"
	SourceFallback = "fallback"
)

// QueryResult is the uniform envelope for ad hoc and by-id queries.
type QueryResult struct {
	Success bool       `json:"success"`
	Data    *QueryData `json:"data,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// QueryData is the payload of a successful query.
type QueryData struct {
	Columns  []string        `json:"columns"`
	Records  []models.RawRow `json:"records"`
	RowCount int             `json:"rowCount"`
}

// ProposalActivity is the daily proposals chart with its summary cards.
type ProposalActivity struct {
	Source  string                 `json:"source"`
	Days    []models.DailyProposal `json:"days"`
	Summary Summary                `json:"summary"`
}

// DAOListing is the newest DAOs panel.
type DAOListing struct {
	Source string       `json:"source"`
	DAOs   []models.DAO `json:"daos"`
}

// FungiTVL is the treasury value of the FungiDAO realm.
type FungiTVL struct {
	Success   bool             `json:"success"`
	DAO       string           `json:"dao"`
	TVL       *decimal.Decimal `json:"tvl,omitempty"`
	Formatted string           `json:"formatted,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// TVLTotal is the sum over every tracked DAO.
type TVLTotal struct {
	Total     decimal.Decimal `json:"total"`
	Formatted string          `json:"formatted"`
}

// Overview bundles every dashboard panel into one response.
type Overview struct {
	Proposals  ProposalActivity     `json:"proposals"`
	NewestDAOs DAOListing           `json:"newestDaos"`
	FungiTVL   FungiTVL             `json:"fungiTvl"`
	TVL        TVLTotal             `json:"tvl"`
	TopByTVL   []models.DAODetail   `json:"topByTvl"`
	Growth     []models.GrowthPoint `json:"growth"`
}
