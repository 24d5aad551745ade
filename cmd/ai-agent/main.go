package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/ai"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/config"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/flipside"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/storage"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/warehouse"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Flags
	queryFlag := flag.String("q", "", "Run a single natural language query and exit")
	modelFlag := flag.String("model", "", "OpenRouter model name (default AI_MODEL)")
	sourceFlag := flag.String("source", "flipside", "Where generated SQL runs: flipside or warehouse")
	flag.Parse()

	// Logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	_ = godotenv.Load()

	// Config
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if cfg.OpenRouterAPIKey == "" {
		logger.Fatal("OPENROUTER_API_KEY is required for the AI agent. Please set it in your environment or config.")
	}

	// Context + signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down AI agent...")
		cancel()
	}()

	// SQL runner
	var runner storage.SQLRunner
	dialect := "snowflake"
	switch *sourceFlag {
	case "flipside":
		if cfg.FlipsideAPIKey == "" {
			logger.Fatal("FLIPSIDE_API_KEY is required for -source flipside")
		}
		runner = flipside.NewClient(flipside.ClientConfig{
			BaseURL:      cfg.FlipsideBaseURL,
			APIKey:       cfg.FlipsideAPIKey,
			Timeout:      cfg.HTTPTimeout,
			PollInterval: cfg.FlipsidePollInterval,
			MaxWait:      cfg.FlipsideMaxWait,
			Logger:       logger,
		})
	case "warehouse":
		store, err := warehouse.NewClickHouseStore(ctx, warehouse.Config{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
			Logger:   logger,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to ClickHouse")
		}
		defer store.Close()
		runner, dialect = store, "clickhouse"
	default:
		logger.Fatalf("unknown -source %q", *sourceFlag)
	}

	model := *modelFlag
	if model == "" {
		model = cfg.AIModel
	}

	// Agent
	agent, err := ai.NewAgent(ai.AgentConfig{
		OpenRouterAPIKey: cfg.OpenRouterAPIKey,
		Model:            model,
		Runner:           runner,
		Dialect:          dialect,
		Logger:           logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create AI agent")
	}

	// Single-shot mode
	if *queryFlag != "" {
		if err := runSingle(ctx, agent, *queryFlag); err != nil {
			logger.WithError(err).Fatal("query failed")
		}
		return
	}

	// REPL mode
	runREPL(ctx, agent)
}

func runSingle(ctx context.Context, agent *ai.Agent, q string) error {
	res, err := agent.Ask(ctx, q)
	if err != nil {
		return err
	}

	fmt.Printf("SQL:\n%s\n\n", res.SQL)
	fmt.Printf("Rows: %d\n\n", res.Rows)
	fmt.Printf("Answer:\n%s\n", res.Answer)
	return nil
}

func runREPL(ctx context.Context, agent *ai.Agent) {
	fmt.Println("Solana DAO governance assistant (question → SQL → answer)")
	fmt.Println("Type your question and press Enter. Empty line to exit.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		q, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("error reading input:", err)
			return
		}
		q = strings.TrimSpace(q)
		if q == "" {
			fmt.Println("bye")
			return
		}

		// Short cooldown to avoid hammering the LLM if user spams enter.
		time.Sleep(200 * time.Millisecond)

		res, err := agent.Ask(ctx, q)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}

		fmt.Printf("\nSQL:\n%s\n\n", res.SQL)
		fmt.Printf("Answer:\n%s\n\n", res.Answer)
	}
}
