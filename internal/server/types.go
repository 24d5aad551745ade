package server

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"`
}

// ItemsResponse wraps list payloads
type ItemsResponse struct {
	Items any `json:"items"`
}

// LeaderboardResponse is the sorted DAO table
type LeaderboardResponse struct {
	Sort  string `json:"sort"`
	Dir   string `json:"dir"`
	Items any    `json:"items"`
}

// SQLRequest is an ad hoc query. Source is "flipside" (default) or "warehouse".
type SQLRequest struct {
	SQL    string `json:"sql"`
	Source string `json:"source"`
}

// FlagUpsertRequest represents a request to create or update a feature flag
type FlagUpsertRequest struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

// FlagUpdateRequest represents a request to update an existing feature flag
type FlagUpdateRequest struct {
	Value bool `json:"value"`
}

// AIAskRequest represents a natural language query request
type AIAskRequest struct {
	Question string `json:"question"` // Question about DAO governance activity
	Model    string `json:"model"`    // Optional AI model override
}

// AIAskResponse represents the response from an AI query
type AIAskResponse struct {
	SQL    string `json:"sql"`
	Answer string `json:"answer"`
	Rows   int    `json:"rows"`
	TookMs int64  `json:"took_ms"`
}
