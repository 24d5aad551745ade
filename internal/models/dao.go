package models

import "github.com/shopspring/decimal"

// DAO is a normalized organization listing row.
type DAO struct {
	Name          string   `json:"name"`
	HasToken      bool     `json:"hasToken"`
	ProposalCount *float64 `json:"proposal_count,omitempty"`
	MemberCount   *float64 `json:"member_count,omitempty"`
	Address       string   `json:"realm_address,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty"`
	NewAccount    string   `json:"account_newAccount,omitempty"`
}

// DAODetail is a leaderboard record.
type DAODetail struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Members     int64           `json:"members"`
	Votes       int64           `json:"votes"`
	Proposals   int64           `json:"proposals"`
	TVL         decimal.Decimal `json:"tvl"`
}

// GrowthPoint is one month of DAO creation counts.
type GrowthPoint struct {
	Month     string `json:"month"`
	NewDAOs   int    `json:"newDaos"`
	TotalDAOs int    `json:"totalDaos"`
}
