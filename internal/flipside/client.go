package flipside

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrMissingAPIKey is returned by every call made without FLIPSIDE_API_KEY
var ErrMissingAPIKey = errors.New("FLIPSIDE_API_KEY environment variable is not set")

var queryRunIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Client talks to the Flipside v2 JSON-RPC API. It does not retry: a failed
// call is reported to the caller as-is.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	maxWait      time.Duration
	pageSize     int
	logger       *logrus.Logger
}

// ClientConfig holds configuration for the Flipside client
type ClientConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	PollInterval time.Duration
	MaxWait      time.Duration
	PageSize     int
	Logger       *logrus.Logger
}

// NewClient creates a new Flipside client
func NewClient(cfg ClientConfig) *Client {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api-v2.flipsidecrypto.xyz"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = 2 * time.Minute
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10000
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:       strings.TrimSpace(cfg.APIKey),
		pollInterval: cfg.PollInterval,
		maxWait:      cfg.MaxWait,
		pageSize:     cfg.PageSize,
		logger:       cfg.Logger,
	}
}

// ValidateQueryRunID checks the shape of a query run identifier
func ValidateQueryRunID(id string) error {
	if !queryRunIDRe.MatchString(id) {
		return fmt.Errorf("invalid query run id")
	}
	return nil
}

// call makes a single JSON-RPC call and decodes its result into out
func call[T any](ctx context.Context, c *Client, method string, params any) (*T, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	body := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  []any{params},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	dec := json.NewDecoder(bytes.NewReader(resp))
	dec.UseNumber()

	var envelope rpcResponse[T]
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return nil, envelope.Error
	}
	if envelope.Result == nil {
		return nil, fmt.Errorf("%s: empty result", method)
	}
	return envelope.Result, nil
}

func (c *Client) doRequest(ctx context.Context, data []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/json-rpc", bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limited (429)")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// CreateQueryRun submits a SQL statement for execution
func (c *Client) CreateQueryRun(ctx context.Context, sql string) (*QueryRun, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, fmt.Errorf("sql is required")
	}

	out, err := call[QueryRunEnvelope](ctx, c, "createQueryRun", CreateQueryRunParams{
		ResultTTLHours: 1,
		MaxAgeMinutes:  0,
		SQL:            sql,
		Tags:           map[string]string{"source": "solana-dao-dashboard"},
		DataSource:     "snowflake-default",
		DataProvider:   "flipside",
	})
	if err != nil {
		return nil, err
	}
	if out.QueryRun == nil || out.QueryRun.ID == "" {
		return nil, fmt.Errorf("createQueryRun: missing query run id")
	}
	return out.QueryRun, nil
}

// GetQueryRun fetches the current state of a query run
func (c *Client) GetQueryRun(ctx context.Context, queryRunID string) (*QueryRun, error) {
	out, err := call[QueryRunEnvelope](ctx, c, "getQueryRun", map[string]any{"queryRunId": queryRunID})
	if err != nil {
		return nil, err
	}
	if out.QueryRun == nil {
		return nil, fmt.Errorf("getQueryRun: missing query run")
	}
	return out.QueryRun, nil
}

// WaitForQueryRun polls the run until it reaches a terminal state or maxWait elapses
func (c *Client) WaitForQueryRun(ctx context.Context, queryRunID string) (*QueryRun, error) {
	ctx, cancel := context.WithTimeout(ctx, c.maxWait)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		run, err := c.GetQueryRun(ctx, queryRunID)
		if err != nil {
			return nil, err
		}
		if run.Terminal() {
			if run.State != StateSuccess {
				return run, &QueryRunFailedError{Run: run}
			}
			return run, nil
		}

		c.logger.WithFields(logrus.Fields{
			"query_run_id": queryRunID,
			"state":        run.State,
		}).Debug("waiting for flipside query run")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for query run %s: %w", queryRunID, ctx.Err())
		case <-ticker.C:
		}
	}
}

// GetQueryRunResults fetches every page of a finished run
func (c *Client) GetQueryRunResults(ctx context.Context, queryRunID string) (*QueryRunResults, error) {
	var merged *QueryRunResults
	for page := 1; ; page++ {
		out, err := call[QueryRunResults](ctx, c, "getQueryRunResults", map[string]any{
			"queryRunId": queryRunID,
			"format":     "csv",
			"page":       map[string]int{"number": page, "size": c.pageSize},
		})
		if err != nil {
			return nil, err
		}
		if merged == nil {
			merged = out
		} else {
			merged.Rows = append(merged.Rows, out.Rows...)
		}
		if out.Page == nil || out.Page.CurrentPageNumber >= out.Page.TotalPages {
			break
		}
	}
	return merged, nil
}

// QueryRunResults implements storage.QueryRunFetcher
func (c *Client) QueryRunResults(ctx context.Context, queryRunID string) (*models.ResultSet, error) {
	if err := ValidateQueryRunID(queryRunID); err != nil {
		return nil, err
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if _, err := c.WaitForQueryRun(ctx, queryRunID); err != nil {
		return nil, err
	}
	res, err := c.GetQueryRunResults(ctx, queryRunID)
	if err != nil {
		return nil, err
	}
	return res.ResultSet(), nil
}

// RunSQL implements storage.SQLRunner
func (c *Client) RunSQL(ctx context.Context, sql string) (*models.ResultSet, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	start := time.Now()
	run, err := c.CreateQueryRun(ctx, sql)
	if err != nil {
		return nil, err
	}

	rs, err := c.QueryRunResults(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"query_run_id": run.ID,
		"rows":         rs.RowCount,
		"took":         time.Since(start),
	}).Info("flipside query finished")
	return rs, nil
}

// ResultSet turns page rows into records keyed by column name. Object rows
// without columnNames take their columns from the sorted keys of the first row.
func (r *QueryRunResults) ResultSet() *models.ResultSet {
	cols := r.ColumnNames
	if len(cols) == 0 && len(r.Rows) > 0 && r.Rows[0].Fields != nil {
		cols = make([]string, 0, len(r.Rows[0].Fields))
		for k := range r.Rows[0].Fields {
			cols = append(cols, k)
		}
		sort.Strings(cols)
	}

	rs := &models.ResultSet{Columns: cols}
	rs.Rows = make([]models.RawRow, 0, len(r.Rows))
	for _, values := range r.Rows {
		row := make(models.RawRow, len(cols))
		if values.Fields != nil {
			for k, v := range values.Fields {
				row[k] = v
			}
		}
		for i, col := range cols {
			if values.Fields != nil {
				if _, ok := row[col]; !ok {
					row[col] = nil
				}
				continue
			}
			if i < len(values.Values) {
				row[col] = values.Values[i]
			} else {
				row[col] = nil
			}
		}
		rs.Rows = append(rs.Rows, row)
	}
	rs.RowCount = len(rs.Rows)
	if r.Page != nil {
		rs.Metadata = map[string]any{
			"column_types": r.ColumnTypes,
			"total_rows":   r.Page.TotalRows,
			"total_pages":  r.Page.TotalPages,
		}
	}
	return rs
}
