package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// scriptedLLM answers prompts in order.
type scriptedLLM struct {
	replies []string
	prompts []string
}

func (s *scriptedLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, m := range messages {
		for _, p := range m.Parts {
			if tc, ok := p.(llms.TextContent); ok {
				s.prompts = append(s.prompts, tc.Text)
			}
		}
	}
	if len(s.replies) == 0 {
		return nil, errors.New("no scripted reply left")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: reply}}}, nil
}

func (s *scriptedLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, s, prompt, options...)
}

type recordingRunner struct {
	sql string
	rs  *models.ResultSet
	err error
}

func (r *recordingRunner) RunSQL(_ context.Context, sql string) (*models.ResultSet, error) {
	r.sql = sql
	return r.rs, r.err
}

func testAgent(t *testing.T, llm llms.Model, runner *recordingRunner, dialect string) *Agent {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	a, err := newAgent(llm, AgentConfig{Runner: runner, Dialect: dialect, Logger: logger})
	require.NoError(t, err)
	return a
}

func TestAgent_Ask(t *testing.T) {
	llm := &scriptedLLM{replies: []string{
		"```sql\nSELECT date_trunc('day', block_timestamp) as day, count(*) as n FROM solana.core.fact_events GROUP BY 1;\n```",
		"  - 12 governance events on Mar 5  ",
	}}
	runner := &recordingRunner{rs: &models.ResultSet{Rows: []models.RawRow{{"day": "2025-03-05", "n": json.Number("12")}}}}

	res, err := testAgent(t, llm, runner, "").Ask(context.Background(), "How busy was governance?")
	require.NoError(t, err)

	assert.Equal(t, "SELECT date_trunc('day', block_timestamp) as day, count(*) as n FROM solana.core.fact_events GROUP BY 1", res.SQL)
	assert.Equal(t, res.SQL, runner.sql)
	assert.Equal(t, "- 12 governance events on Mar 5", res.Answer)
	assert.Equal(t, 1, res.Rows)

	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[0], "Snowflake")
	assert.Contains(t, llm.prompts[0], "GovER5Lthms3bLBqWub97yVrMmEogzX7xNjdXpPPCVZw")
	assert.Contains(t, llm.prompts[1], `"n":12`)
}

func TestAgent_RejectsUnsafeSQL(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"DELETE FROM solana.core.fact_events"}}
	runner := &recordingRunner{}

	_, err := testAgent(t, llm, runner, "").Ask(context.Background(), "wipe it")
	require.Error(t, err)
	assert.Empty(t, runner.sql)
}

func TestAgent_RunnerError(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"SELECT count(*) FROM solana.fact_events"}}
	runner := &recordingRunner{err: errors.New("warehouse down")}

	_, err := testAgent(t, llm, runner, "clickhouse").Ask(context.Background(), "count events")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warehouse down")
	assert.Contains(t, llm.prompts[0], "ClickHouse")
}

func TestNewAgent_Validation(t *testing.T) {
	_, err := NewAgent(AgentConfig{Runner: &recordingRunner{}})
	assert.Error(t, err)

	_, err = newAgent(&scriptedLLM{}, AgentConfig{})
	assert.Error(t, err)

	_, err = newAgent(&scriptedLLM{}, AgentConfig{Runner: &recordingRunner{}, Dialect: "oracle"})
	assert.Error(t, err)
}

func TestSanitizeSQL(t *testing.T) {
	tests := map[string]string{
		"SELECT 1;":                  "SELECT 1",
		"```sql\nSELECT 1\n```":      "SELECT 1",
		"```\nSELECT 1\n```\nthanks": "SELECT 1",
		"sql SELECT 1":               "SELECT 1",
		"  SELECT 1  ":               "SELECT 1",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeSQL(in), in)
	}
}

func TestValidateSQL(t *testing.T) {
	tables := dialects["snowflake"].tables()

	valid := []string{
		"SELECT count(*) FROM solana.core.fact_transactions",
		"select program_id, count(*) from SOLANA.CORE.FACT_EVENTS group by 1",
		"WITH d AS (SELECT * FROM solana.core.fact_events) SELECT count(*) FROM d",
		"SELECT updated_at FROM solana.core.fact_events WHERE event_type = 'createProposal'",
	}
	for _, q := range valid {
		assert.NoError(t, validateSQL(q, tables), q)
	}

	invalid := []string{
		"",
		"DROP TABLE solana.core.fact_events",
		"SELECT 1 FROM solana.core.fact_events; DELETE FROM x",
		"SELECT * FROM solana.core.fact_events WHERE 1=1 UNION SELECT * FROM x WHERE DELETE",
		"SELECT * FROM information_schema.tables",
		"SELECT * FROM solana.fact_events",
		strings.Repeat("x", 5),
	}
	for _, q := range invalid {
		assert.Error(t, validateSQL(q, tables), q)
	}
}
