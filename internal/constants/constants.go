package constants

import "github.com/gagliardetto/solana-go"

// Candidate column names, tried in order. Upstream queries are not under our
// control, so these cover the spellings seen across query revisions.
var (
	DateFields     = []string{"proposal_creation_time", "date", "time", "created_at", "timestamp", "day"}
	ProposalFields = []string{"proposals_created", "proposal_count", "count", "proposals"}

	DAONameFields      = []string{"name", "dao_name", "realm_name"}
	DAOTokenFields     = []string{"has_token", "token_mint", "governance_token", "community_mint"}
	DAOAddressFields   = []string{"realm_address", "realm_id"}
	DAOCreatedFields   = []string{"created_at", "creation_date"}
	DAONewAccountField = []string{"account_newAccount", "account_NewAccount"}

	TVLNameFields  = []string{"DAO_NAME", "NAME"}
	TVLValueFields = []string{"TOTAL_TVL_USD", "TVL"}
)

// UnknownDAOName is used when no name can be recovered from a row.
const UnknownDAOName = "Unknown"

// Limits
const (
	MaxNewestDAOs       = 15
	InspectSampleRows   = 5
	InspectMaxStringLen = 100
	DebugSampleRows     = 3
	PreviewSampleRows   = 3
	PreviewMaxStringLen = 50
	DefaultTopDAOs      = 5
	MaxTopDAOs          = 50
	MaxQueryDays        = 365
	MaxSQLLength        = 20000
)

// FungiDAO is the realm whose treasury value is shown on the dashboard.
const FungiDAO = "FungiDAO"

// SPL governance programs on Solana mainnet.
var GovernancePrograms = []solana.PublicKey{
	// Realms / SPL Governance
	solana.MustPublicKeyFromBase58("GovER5Lthms3bLBqWub97yVrMmEogzX7xNjdXpPPCVZw"),
	// Realms test deployment still used by a few DAOs
	solana.MustPublicKeyFromBase58("GTesTBiEWE32WHXXE2S4XbZvA5CrEc4xs6ZgRe895dP"),
}
