package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	// API server settings
	APIAddr  string
	DevMode  bool
	LogLevel logrus.Level

	// Dune settings
	DuneAPIKey            string
	DuneBaseURL           string
	DuneProposalsQueryID  int
	DuneNewestDAOsQueryID int

	// Flipside settings
	FlipsideAPIKey       string
	FlipsideBaseURL      string
	FlipsidePollInterval time.Duration
	FlipsideMaxWait      time.Duration
	FungiTVLQueryRunID   string

	// HTTP client settings
	HTTPTimeout time.Duration

	// Redis settings
	RedisAddr string

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// AI settings
	OpenRouterAPIKey string
	AIModel          string
}

// Load reads the configuration from the environment. Provider API keys are
// optional here: a missing key surfaces as an error on the call that needs it.
func Load() *Config {
	return &Config{
		// API
		APIAddr:  getEnv("API_ADDR", ":8090"),
		DevMode:  getBoolEnv("DEV_MODE", false),
		LogLevel: getLevelEnv("LOG_LEVEL", logrus.InfoLevel),

		// Dune
		DuneAPIKey:            strings.TrimSpace(os.Getenv("DUNE_API_KEY")),
		DuneBaseURL:           getEnv("DUNE_BASE_URL", "https://api.dune.com/api/v1"),
		DuneProposalsQueryID:  getIntEnv("DUNE_PROPOSALS_QUERY_ID", 5065223),
		DuneNewestDAOsQueryID: getIntEnv("DUNE_NEWEST_DAOS_QUERY_ID", 4789765),

		// Flipside
		FlipsideAPIKey:       strings.TrimSpace(os.Getenv("FLIPSIDE_API_KEY")),
		FlipsideBaseURL:      getEnv("FLIPSIDE_BASE_URL", "https://api-v2.flipsidecrypto.xyz"),
		FlipsidePollInterval: getDurationEnv("FLIPSIDE_POLL_INTERVAL", 2*time.Second),
		FlipsideMaxWait:      getDurationEnv("FLIPSIDE_MAX_WAIT", 2*time.Minute),
		FungiTVLQueryRunID:   getEnv("FUNGI_TVL_QUERY_RUN_ID", "1bd04384-6f5e-4c3a-b31f-157dde736751"),

		// HTTP
		HTTPTimeout: getDurationEnv("HTTP_TIMEOUT", 30*time.Second),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", ""),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "solana"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// AI
		OpenRouterAPIKey: strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		AIModel:          getEnv("AI_MODEL", "openai/gpt-4.1-mini"),
	}
}

// Validate checks structural problems only. Absent provider keys are not errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIAddr) == "" {
		return fmt.Errorf("API_ADDR must not be empty")
	}
	if c.DuneProposalsQueryID <= 0 {
		return fmt.Errorf("DUNE_PROPOSALS_QUERY_ID must be positive, got %d", c.DuneProposalsQueryID)
	}
	if c.DuneNewestDAOsQueryID <= 0 {
		return fmt.Errorf("DUNE_NEWEST_DAOS_QUERY_ID must be positive, got %d", c.DuneNewestDAOsQueryID)
	}
	if c.FlipsidePollInterval <= 0 {
		return fmt.Errorf("FLIPSIDE_POLL_INTERVAL must be positive")
	}
	if c.FlipsideMaxWait < c.FlipsidePollInterval {
		return fmt.Errorf("FLIPSIDE_MAX_WAIT must be at least FLIPSIDE_POLL_INTERVAL")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getLevelEnv(key string, defaultVal logrus.Level) logrus.Level {
	if val := os.Getenv(key); val != "" {
		if lvl, err := logrus.ParseLevel(val); err == nil {
			return lvl
		}
	}
	return defaultVal
}
