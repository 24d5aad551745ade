package ai

// governanceSchemaDescription describes the tables the assistant may query.
// {prefix} is the table qualifier of the dialect and {programs} the list of
// governance program ids.
const governanceSchemaDescription = `
Table: {prefix}fact_transactions
Columns:
  - block_timestamp  TIMESTAMP  -- Block time of the transaction (UTC)
  - block_id         NUMBER     -- Slot the transaction landed in
  - tx_id            STRING     -- Transaction signature
  - signers          ARRAY      -- Signing accounts
  - fee              NUMBER     -- Fee paid in lamports
  - succeeded        BOOLEAN    -- Whether the transaction succeeded

Table: {prefix}fact_events
Columns:
  - block_timestamp  TIMESTAMP  -- Block time of the event (UTC)
  - tx_id            STRING     -- Transaction signature
  - program_id       STRING     -- Program that emitted the instruction
  - event_type       STRING     -- Decoded instruction name, e.g. "createProposal", "castVote"
  - instruction      OBJECT     -- Raw decoded instruction
  - succeeded        BOOLEAN    -- Whether the enclosing transaction succeeded

Notes:
  - SPL Governance (Realms) program ids: {programs}.
  - Filter governance activity with program_id IN (...) on fact_events.
  - Use block_timestamp for time filtering and date_trunc('day', block_timestamp) for daily buckets.
`

// dialect is a SQL flavour together with where it keeps the tables.
type dialect struct {
	Name   string
	Prefix string
}

var dialects = map[string]dialect{
	"snowflake":  {Name: "Snowflake", Prefix: "solana.core."},
	"clickhouse": {Name: "ClickHouse", Prefix: "solana."},
}

func (d dialect) tables() []string {
	return []string{d.Prefix + "fact_transactions", d.Prefix + "fact_events"}
}
