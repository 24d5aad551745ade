package dune

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
)

var (
	// ErrMissingAPIKey is returned by every call made without DUNE_API_KEY.
	ErrMissingAPIKey = errors.New("DUNE_API_KEY environment variable is not set")
	// ErrNoResult is returned when the envelope has no result rows at all.
	ErrNoResult = errors.New("invalid response from Dune API")
)

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.dune.com/api/v1"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  strings.TrimSpace(apiKey),
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("dune http %d", e.StatusCode)
	}
	return fmt.Sprintf("dune http %d: %s", e.StatusCode, b)
}

// GetLatestResult fetches the latest cached execution of a saved query.
// The envelope is returned as-is; callers decide how to treat missing rows.
func (c *Client) GetLatestResult(ctx context.Context, queryID int) (*LatestResultResponse, error) {
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if queryID <= 0 {
		return nil, fmt.Errorf("queryId must be positive, got %d", queryID)
	}

	u := fmt.Sprintf("%s/query/%d/results", c.BaseURL, queryID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("accept", "application/json")
	httpReq.Header.Set("X-Dune-API-Key", c.APIKey)

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}

	// keep numbers as json.Number so large counts survive the round trip
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var out LatestResultResponse
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode dune result response: %w", err)
	}
	return &out, nil
}

// LatestResult implements storage.LatestResultFetcher.
func (c *Client) LatestResult(ctx context.Context, queryID int) (*models.ResultSet, error) {
	out, err := c.GetLatestResult(ctx, queryID)
	if err != nil {
		return nil, err
	}
	if !out.HasRows() {
		return nil, ErrNoResult
	}
	return out.ResultSet(), nil
}
