package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/ai"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/analytics"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/constants"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/flags"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/flipside"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Service      *analytics.Service // Dashboard data, queries and fallbacks
	Flags        *flags.Store       // Redis-backed feature flags store (optional)
	AI           *ai.Agent          // AI agent for natural language queries (optional)
	AIBaseConfig ai.AgentConfig     // Base configuration for per-request agents
	QueryTimeout time.Duration      // Upper bound for Flipside and warehouse calls
	DevMode      bool               // Enable detailed error responses in development
	Logger       *logrus.Logger     // Structured logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

func (h *Handlers) queryTimeout() time.Duration {
	if h.QueryTimeout > 0 {
		return h.QueryTimeout
	}
	return 2*time.Minute + 30*time.Second
}

// queryResult writes a query envelope; failed queries answer 502.
func (h *Handlers) queryResult(c echo.Context, res analytics.QueryResult) error {
	if !res.Success {
		return c.JSON(http.StatusBadGateway, res)
	}
	return c.JSON(http.StatusOK, res)
}

// intParam reads an optional integer query parameter
func intParam(c echo.Context, name string, def int) (int, bool) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// DuneData returns column names and a truncated sample of the newest DAOs query
func (h *Handlers) DuneData(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 35*time.Second)
	defer cancel()

	out, err := h.Service.InspectDuneQuery(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, err.Error(), nil)
	}
	return c.JSON(http.StatusOK, out)
}

// DuneDebug returns the raw execution metadata and first rows of any query
func (h *Handlers) DuneDebug(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("queryId"))
	if raw == "" {
		return h.err(c, http.StatusBadRequest, "Missing queryId parameter", nil)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return h.err(c, http.StatusBadRequest, "invalid queryId", map[string]any{"queryId": "must be a positive integer"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 35*time.Second)
	defer cancel()

	out, err := h.Service.DebugDuneQuery(ctx, id)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, err.Error(), nil)
	}
	return c.JSON(http.StatusOK, out)
}

// DuneSample returns a short preview of the newest DAOs query
func (h *Handlers) DuneSample(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 35*time.Second)
	defer cancel()

	out, err := h.Service.SampleDuneQuery(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, err.Error(), nil)
	}
	return c.JSON(http.StatusOK, out)
}

// ProposalsDaily returns the daily proposals series with its summary
func (h *Handlers) ProposalsDaily(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 35*time.Second)
	defer cancel()

	return c.JSON(http.StatusOK, h.Service.ProposalActivity(ctx))
}

// DAOsNewest returns the most recently created DAOs
func (h *Handlers) DAOsNewest(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 35*time.Second)
	defer cancel()

	return c.JSON(http.StatusOK, h.Service.FetchNewestDAOs(ctx))
}

// DAOsLeaderboard returns every tracked DAO sorted by the sort and dir parameters
func (h *Handlers) DAOsLeaderboard(c echo.Context) error {
	field := strings.ToLower(strings.TrimSpace(c.QueryParam("sort")))
	dir := strings.ToLower(strings.TrimSpace(c.QueryParam("dir")))

	items, err := h.Service.Leaderboard(field, dir)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid sort", map[string]any{"err": err.Error()})
	}
	if field == "" {
		field = analytics.SortMembers
	}
	if dir == "" {
		dir = "desc"
	}
	return c.JSON(http.StatusOK, LeaderboardResponse{Sort: field, Dir: dir, Items: items})
}

// DAOsTop returns the n DAOs with the highest TVL
// Accepts n query parameter (default: 5, range: 1-50)
func (h *Handlers) DAOsTop(c echo.Context) error {
	n, ok := intParam(c, "n", constants.DefaultTopDAOs)
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid n", map[string]any{"n": "must be an integer"})
	}
	if n < 1 || n > constants.MaxTopDAOs {
		return h.err(c, http.StatusBadRequest, "invalid n", map[string]any{"n": "min 1 max 50"})
	}
	return c.JSON(http.StatusOK, ItemsResponse{Items: h.Service.TopByTVL(n)})
}

// DAOGet looks a tracked DAO up by name
func (h *Handlers) DAOGet(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return h.err(c, http.StatusBadRequest, "invalid name", nil)
	}
	dao, ok := h.Service.DAO(name)
	if !ok {
		return h.err(c, http.StatusNotFound, "dao not found", nil)
	}
	return c.JSON(http.StatusOK, dao)
}

// TVL returns the total value locked across tracked DAOs
func (h *Handlers) TVL(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Service.TotalTVL())
}

// FungiTVL returns the FungiDAO treasury value from its Flipside query run
func (h *Handlers) FungiTVL(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), h.queryTimeout())
	defer cancel()

	out := h.Service.FungiDAOTVL(ctx)
	if !out.Success {
		return c.JSON(http.StatusBadGateway, out)
	}
	return c.JSON(http.StatusOK, out)
}

// Growth returns the cumulative DAO count series
func (h *Handlers) Growth(c echo.Context) error {
	return c.JSON(http.StatusOK, ItemsResponse{Items: h.Service.Growth()})
}

// Overview returns every dashboard panel in one response
func (h *Handlers) Overview(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), h.queryTimeout())
	defer cancel()

	out, err := h.Service.Overview(ctx)
	if err != nil {
		return h.err(c, http.StatusServiceUnavailable, "overview cancelled", map[string]any{"err": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

// QueriesSQL runs an ad hoc statement on Flipside or the ClickHouse warehouse
func (h *Handlers) QueriesSQL(c echo.Context) error {
	var req SQLRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if strings.TrimSpace(req.SQL) == "" {
		return h.err(c, http.StatusBadRequest, "sql is required", map[string]any{"sql": "required"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), h.queryTimeout())
	defer cancel()

	switch strings.ToLower(strings.TrimSpace(req.Source)) {
	case "", analytics.SourceFlipside:
		return h.queryResult(c, h.Service.RunSQL(ctx, req.SQL))
	case "warehouse":
		return h.queryResult(c, h.Service.RunWarehouseSQL(ctx, req.SQL))
	}
	return h.err(c, http.StatusBadRequest, "invalid source", map[string]any{"source": "flipside or warehouse"})
}

// QueryRun returns the results of an existing Flipside query run
func (h *Handlers) QueryRun(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if err := flipside.ValidateQueryRunID(id); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid query run id", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), h.queryTimeout())
	defer cancel()

	return h.queryResult(c, h.Service.RunQueryByID(ctx, id))
}

// QueriesTransactions runs the daily governance transaction count query
// Accepts days query parameter (default: 7, clamped to 1-365)
func (h *Handlers) QueriesTransactions(c echo.Context) error {
	days, ok := intParam(c, "days", analytics.DefaultTransactionDays)
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid days", map[string]any{"days": "must be an integer"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), h.queryTimeout())
	defer cancel()

	return h.queryResult(c, h.Service.SolanaDAOTransactions(ctx, days))
}

// QueriesGovernance runs the daily governance proposal count query
// Accepts days query parameter (default: 30, clamped to 1-365)
func (h *Handlers) QueriesGovernance(c echo.Context) error {
	days, ok := intParam(c, "days", analytics.DefaultGovernanceDays)
	if !ok {
		return h.err(c, http.StatusBadRequest, "invalid days", map[string]any{"days": "must be an integer"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), h.queryTimeout())
	defer cancel()

	return h.queryResult(c, h.Service.DAOGovernanceProposals(ctx, days))
}

// RequireFlags answers 503 when no Redis flag store is configured
func (h *Handlers) RequireFlags(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.Flags == nil {
			return h.err(c, http.StatusServiceUnavailable, "flags store is not configured", nil)
		}
		return next(c)
	}
}

// FlagsUpsert creates or updates a feature flag with the given key and value
// Validates key format and returns the created/updated flag
func (h *Handlers) FlagsUpsert(c echo.Context) error {
	var req FlagUpsertRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if err := flags.ValidateKey(req.Key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Upsert(ctx, req.Key, req.Value)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to upsert flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

// FlagsUpdate updates an existing feature flag with the given key
func (h *Handlers) FlagsUpdate(c echo.Context) error {
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}
	var req FlagUpdateRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Upsert(ctx, key, req.Value)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to update flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

// FlagsGet retrieves a feature flag by its key
// Returns 404 if flag doesn't exist
func (h *Handlers) FlagsGet(c echo.Context) error {
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Get(ctx, key)
	if err != nil {
		if errors.Is(err, flags.ErrNotFound) {
			return h.err(c, http.StatusNotFound, "flag not found", nil)
		}
		return h.err(c, http.StatusInternalServerError, "failed to get flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

// FlagsList returns all feature flags in the system
func (h *Handlers) FlagsList(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Flags.List(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to list flags", nil)
	}
	return c.JSON(http.StatusOK, ItemsResponse{Items: items})
}

// FlagsDelete removes a feature flag by its key
// Returns 204 No Content on successful deletion
func (h *Handlers) FlagsDelete(c echo.Context) error {
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.Flags.Delete(ctx, key); err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to delete flag", nil)
	}
	return c.NoContent(http.StatusNoContent)
}

// AIAsk answers natural language questions about DAO governance activity
// Supports optional model override for one-off requests
func (h *Handlers) AIAsk(c echo.Context) error {
	if h.AI == nil {
		return h.err(c, http.StatusBadRequest, "ai is not configured", nil)
	}

	var req AIAskRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return h.err(c, http.StatusBadRequest, "question is required", map[string]any{"question": "required"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), h.queryTimeout()+45*time.Second)
	defer cancel()

	start := time.Now()

	agent := h.AI
	if m := strings.TrimSpace(req.Model); m != "" {
		cfg := h.AIBaseConfig
		cfg.Model = m
		a, err := ai.NewAgent(cfg)
		if err != nil {
			return h.err(c, http.StatusInternalServerError, "failed to create ai agent", nil)
		}
		agent = a
	}

	res, err := agent.Ask(ctx, req.Question)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "ai ask failed", map[string]any{"err": err.Error()})
	}

	return c.JSON(http.StatusOK, AIAskResponse{
		SQL:    res.SQL,
		Answer: res.Answer,
		Rows:   res.Rows,
		TookMs: time.Since(start).Milliseconds(),
	})
}
