package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/ai"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/analytics"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/config"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/dune"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/fallback"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/flags"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/flipside"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/server"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/storage"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/warehouse"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main is the entry point for the dashboard API server
// It initializes all dependencies and starts the HTTP server with graceful shutdown
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	logger.SetLevel(cfg.LogLevel)

	if cfg.DuneAPIKey == "" {
		logger.Warn("DUNE_API_KEY is not set, dashboard panels will use fallback data")
	}
	if cfg.FlipsideAPIKey == "" {
		logger.Warn("FLIPSIDE_API_KEY is not set, SQL queries will fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	duneClient := dune.NewClient(cfg.DuneBaseURL, cfg.DuneAPIKey, cfg.HTTPTimeout)
	flipsideClient := flipside.NewClient(flipside.ClientConfig{
		BaseURL:      cfg.FlipsideBaseURL,
		APIKey:       cfg.FlipsideAPIKey,
		Timeout:      cfg.HTTPTimeout,
		PollInterval: cfg.FlipsidePollInterval,
		MaxWait:      cfg.FlipsideMaxWait,
		Logger:       logger,
	})

	// Redis backs the runtime toggles (optional)
	var flagStore *flags.Store
	if cfg.RedisAddr != "" {
		rclient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		err := rclient.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			logger.WithError(err).Warn("redis unreachable, feature flags disabled")
			_ = rclient.Close()
		} else {
			defer rclient.Close()
			flagStore, err = flags.NewStore(rclient, logger)
			if err != nil {
				logger.WithError(err).Fatal("failed to create flags store")
			}
		}
	}

	// ClickHouse mirror of the governance tables (optional)
	var store storage.Warehouse
	if cfg.ClickHouseAddr != "" {
		s, err := warehouse.NewClickHouseStore(ctx, warehouse.Config{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
			Logger:   logger,
		})
		if err != nil {
			logger.WithError(err).Warn("clickhouse unreachable, warehouse queries disabled")
		} else {
			store = s
			defer store.Close()
		}
	}

	svcCfg := analytics.Config{
		Dune:               duneClient,
		Flipside:           flipsideClient,
		ProposalsQueryID:   cfg.DuneProposalsQueryID,
		NewestDAOsQueryID:  cfg.DuneNewestDAOsQueryID,
		FungiTVLQueryRunID: cfg.FungiTVLQueryRunID,
		FallbackProposals:  fallback.Proposals(),
		FallbackDAOs:       fallback.NewestDAOs(),
		DAODetails:         fallback.DAODetails(),
		Growth:             fallback.Growth(),
		Logger:             logger,
	}
	// Interface fields stay nil when the optional backends are absent
	if flagStore != nil {
		svcCfg.Toggles = flagStore
	}
	if store != nil {
		svcCfg.Warehouse = store
	}

	svc, err := analytics.NewService(svcCfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to create analytics service")
	}

	// The assistant prefers the warehouse and falls back to Flipside
	var runner storage.SQLRunner = flipsideClient
	dialect := "snowflake"
	if store != nil {
		runner, dialect = store, "clickhouse"
	}
	aiBase := ai.AgentConfig{
		OpenRouterAPIKey: cfg.OpenRouterAPIKey,
		Model:            cfg.AIModel,
		Runner:           runner,
		Dialect:          dialect,
		Logger:           logger,
	}

	var agent *ai.Agent
	if cfg.OpenRouterAPIKey != "" {
		a, err := ai.NewAgent(aiBase)
		if err != nil {
			logger.WithError(err).Warn("failed to initialize ai agent")
		} else {
			agent = a
		}
	}

	queryTimeout := cfg.FlipsideMaxWait + cfg.HTTPTimeout
	h := &server.Handlers{
		Service:      svc,
		Flags:        flagStore,
		AI:           agent,
		AIBaseConfig: aiBase,
		QueryTimeout: queryTimeout,
		DevMode:      cfg.DevMode,
		Logger:       logger,
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:         cfg.APIAddr,
			DevMode:      cfg.DevMode,
			WriteTimeout: queryTimeout + time.Minute,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
		_ = srv.Shutdown(context.Background())
	}()

	logger.WithFields(logrus.Fields{
		"addr":      cfg.APIAddr,
		"flags":     flagStore != nil,
		"warehouse": store != nil,
		"ai":        agent != nil,
	}).Info("api server starting")
	if err := srv.Start(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			_ = srv.WaitClosed(context.Background())
			return
		}
		logger.WithError(err).Fatal("api server failed")
	}
}
