package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

func rateLimited(r rate.Limit, burst int) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      r,
		Burst:     burst,
		ExpiresIn: 2 * time.Minute,
	}))
}

// RegisterRoutes configures all API routes, middleware, and error handlers
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	e.HTTPErrorHandler = JSONErrorHandler(cfg.DevMode, h.Logger)

	e.Use(SetJSONContentType)
	e.Use(SetNoCacheHeaders)

	// Dune inspection routes used while wiring new queries
	api := e.Group("/api")
	api.GET("/dune-data", h.DuneData)
	api.GET("/dune-debug", h.DuneDebug)
	api.GET("/dune-sample", h.DuneSample)

	v1 := e.Group("/v1")
	v1.GET("/health", h.Health)
	v1.GET("/overview", h.Overview)
	v1.GET("/proposals/daily", h.ProposalsDaily)
	v1.GET("/growth", h.Growth)

	daos := v1.Group("/daos")
	daos.GET("", h.DAOsLeaderboard)
	daos.GET("/newest", h.DAOsNewest)
	daos.GET("/top", h.DAOsTop)
	daos.GET("/:name", h.DAOGet)

	v1.GET("/tvl", h.TVL)
	v1.GET("/tvl/fungi", h.FungiTVL)

	// Flipside runs are slow and metered
	queries := v1.Group("/queries")
	queries.POST("/sql", h.QueriesSQL, rateLimited(rate.Limit(0.5), 3))
	queries.GET("/runs/:id", h.QueryRun)
	queries.GET("/transactions", h.QueriesTransactions)
	queries.GET("/governance", h.QueriesGovernance)

	// AI endpoints with rate limiting, 1 request every 5 seconds
	aigroup := v1.Group("/ai")
	aigroup.Use(rateLimited(rate.Limit(0.2), 2))
	aigroup.POST("/ask", h.AIAsk)

	// Feature flags CRUD endpoints
	flagGroup := v1.Group("/flags", h.RequireFlags)
	flagGroup.GET("", h.FlagsList)
	flagGroup.POST("", h.FlagsUpsert)
	flagGroup.GET("/:key", h.FlagsGet)
	flagGroup.PUT("/:key", h.FlagsUpdate)
	flagGroup.DELETE("/:key", h.FlagsDelete)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: http.StatusNotFound})
	})
}
