package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/constants"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	defaultModel   = "openai/gpt-4.1-mini"
	openRouterURL  = "https://openrouter.ai/api/v1"
	defaultDialect = "snowflake"

	// maxResultBytes bounds how much of the result set is sent back to the LLM.
	maxResultBytes = 16 << 10
)

// AgentConfig holds configuration for the AI agent.
type AgentConfig struct {
	// OpenRouter / LLM settings.
	OpenRouterAPIKey string
	// Model name as understood by OpenRouter, e.g. "openai/gpt-4.1-mini".
	Model string

	// Runner executes the generated SQL. Dialect is "snowflake" for Flipside
	// or "clickhouse" for the warehouse.
	Runner  storage.SQLRunner
	Dialect string

	Logger *logrus.Logger
}

// Agent answers governance questions by generating SQL with an LLM, running
// it, and summarising the rows.
type Agent struct {
	llm     llms.Model
	runner  storage.SQLRunner
	dialect dialect
	logger  *logrus.Logger
}

// NewAgent creates a new Agent backed by OpenRouter.
func NewAgent(cfg AgentConfig) (*Agent, error) {
	if cfg.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	// OpenRouter speaks the OpenAI API.
	llm, err := openai.New(
		openai.WithToken(cfg.OpenRouterAPIKey),
		openai.WithBaseURL(openRouterURL),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter LLM: %w", err)
	}

	a, err := newAgent(llm, cfg)
	if err != nil {
		return nil, err
	}
	a.logger.WithFields(logrus.Fields{
		"model":   cfg.Model,
		"dialect": a.dialect.Name,
	}).Info("initialized AI agent")
	return a, nil
}

func newAgent(llm llms.Model, cfg AgentConfig) (*Agent, error) {
	if cfg.Runner == nil {
		return nil, fmt.Errorf("sql runner is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Dialect == "" {
		cfg.Dialect = defaultDialect
	}
	d, ok := dialects[strings.ToLower(cfg.Dialect)]
	if !ok {
		return nil, fmt.Errorf("unknown sql dialect %q", cfg.Dialect)
	}
	return &Agent{llm: llm, runner: cfg.Runner, dialect: d, logger: cfg.Logger}, nil
}

// AskResult is the structured result of an Ask call.
type AskResult struct {
	SQL    string
	Answer string
	Rows   int
}

// Ask takes a natural language question, generates SQL, executes it, and summarises the result.
func (a *Agent) Ask(ctx context.Context, question string) (*AskResult, error) {
	sqlQuery, err := a.generateSQL(ctx, question)
	if err != nil {
		return nil, err
	}

	rs, err := a.runner.RunSQL(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	rowsJSON, err := json.Marshal(rs.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rows to JSON: %w", err)
	}
	if len(rowsJSON) > maxResultBytes {
		rowsJSON = append(rowsJSON[:maxResultBytes], []byte("...(truncated)")...)
	}

	answer, err := a.summariseResult(ctx, question, sqlQuery, string(rowsJSON))
	if err != nil {
		return nil, err
	}

	return &AskResult{SQL: sqlQuery, Answer: answer, Rows: len(rs.Rows)}, nil
}

func programList() string {
	ids := make([]string, 0, len(constants.GovernancePrograms))
	for _, p := range constants.GovernancePrograms {
		ids = append(ids, "'"+p.String()+"'")
	}
	return strings.Join(ids, ", ")
}

func (a *Agent) schema() string {
	return strings.NewReplacer(
		"{prefix}", a.dialect.Prefix,
		"{programs}", programList(),
	).Replace(governanceSchemaDescription)
}

// generateSQL asks the LLM for a single read-only SELECT over the governance tables.
func (a *Agent) generateSQL(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(`
You are an expert %s SQL generator for Solana DAO governance analytics.

Use ONLY the following tables:
%s

Rules:
- Return a single SELECT query in %s SQL.
- Do NOT include any explanation or comments, only the SQL.
- Use block_timestamp for time filtering.
- Use aggregate functions like sum, avg, count when appropriate.
- If user asks for "top" or "most active" something, use ORDER BY ... DESC and LIMIT.
- Never modify data: no INSERT, UPDATE, DELETE, DROP, ALTER, CREATE, TRUNCATE, MERGE.

User question:
%s
`, a.dialect.Name, a.schema(), a.dialect.Name, question)

	resp, err := llms.GenerateFromSinglePrompt(ctx, a.llm, prompt, llms.WithMaxTokens(512))
	if err != nil {
		return "", fmt.Errorf("LLM SQL generation failed: %w", err)
	}

	sqlQuery := sanitizeSQL(resp)
	if err := validateSQL(sqlQuery, a.dialect.tables()); err != nil {
		return "", err
	}

	a.logger.WithField("sql", sqlQuery).Debug("generated SQL from question")
	return sqlQuery, nil
}

// summariseResult asks the LLM to answer the question given SQL + JSON results.
func (a *Agent) summariseResult(ctx context.Context, question, sqlQuery, rowsJSON string) (string, error) {
	prompt := fmt.Sprintf(`
You are a helpful assistant analysing governance activity of DAOs on Solana.

User question:
%s

SQL that was executed:
%s

Query results in JSON (array of objects, can be empty):
%s

Instructions:
- If the result set is empty, say that no data was found for the question.
- Otherwise, answer the question concisely using bullet points and short sentences.
- Include key numbers (proposal counts, transaction counts, dates) rounded reasonably.
- Do not restate the raw JSON.
`, question, sqlQuery, rowsJSON)

	resp, err := llms.GenerateFromSinglePrompt(ctx, a.llm, prompt, llms.WithMaxTokens(512))
	if err != nil {
		return "", fmt.Errorf("LLM summarisation failed: %w", err)
	}

	return strings.TrimSpace(resp), nil
}

// sanitizeSQL strips code fences and trailing semicolons from the LLM output.
func sanitizeSQL(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "sql") {
		s = strings.TrimSpace(s[3:])
	}
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ";")
	return strings.TrimSpace(s)
}

var disallowedKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "ALTER", "TRUNCATE",
	"CREATE", "RENAME", "ATTACH", "DETACH", "MERGE", "GRANT",
}

// validateSQL enforces a conservative safety policy for generated SQL.
func validateSQL(s string, tables []string) error {
	if s == "" {
		return fmt.Errorf("empty SQL generated by LLM")
	}

	upper := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return fmt.Errorf("only SELECT queries are allowed, got: %s", upper[:min(20, len(upper))])
	}

	words := strings.FieldsFunc(upper, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_')
	})
	for _, w := range words {
		for _, kw := range disallowedKeywords {
			if w == kw {
				return fmt.Errorf("disallowed SQL keyword %q in generated query", kw)
			}
		}
	}

	if strings.Contains(s, ";") {
		return fmt.Errorf("multiple statements or semicolons are not allowed")
	}

	for _, table := range tables {
		if strings.Contains(upper, strings.ToUpper(table)) {
			return nil
		}
	}
	return fmt.Errorf("query must target one of %s", strings.Join(tables, ", "))
}
