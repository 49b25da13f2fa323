package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/aelys/aelys/internal/agent"
	"github.com/aelys/aelys/internal/api"
	"github.com/aelys/aelys/internal/cache"
	"github.com/aelys/aelys/internal/models"
	"github.com/aelys/aelys/internal/unleash"
)

const defaultUnleashURL = "https://api.unleashnfts.com/api/v2"

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "No .env file found or error loading it: %v\n", err)
	}

	var (
		httpAddr    = flag.String("http-addr", ":8080", "HTTP server address")
		openaiKey   = flag.String("openai-key", "", "OpenAI API key (can also be set via OPENAI_API_KEY env var)")
		unleashKey  = flag.String("unleash-key", "", "UnleashNFTs API key (can also be set via UNLEASH_API_KEY env var)")
		unleashURL  = flag.String("unleash-url", "", "UnleashNFTs API base URL (can also be set via UNLEASH_API_URL env var)")
		model       = flag.String("model", "gpt-4o-mini", "OpenAI model for the orchestrators")
		query       = flag.String("query", "", "Run a single query and print the answer instead of serving")
		agentType   = flag.String("agent", "", "Agent for one-shot mode: copilot, market-insights, or empty for general")
		wallet      = flag.String("wallet", "", "Wallet address for one-shot copilot queries")
		showVersion = flag.Bool("version", false, "Show version and exit")
		verbose     = flag.Bool("v", false, "Verbose mode - debug level logging")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("Aelys v1.0.0")
		fmt.Println("NFT and wallet intelligence agent service")
		os.Exit(0)
	}

	logger := newLogger(*verbose)

	apiKey := *openaiKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		logger.Fatal().Msg("OpenAI API key is required. Set OPENAI_API_KEY environment variable or use -openai-key flag")
	}

	analyticsKey := *unleashKey
	if analyticsKey == "" {
		analyticsKey = os.Getenv("UNLEASH_API_KEY")
	}
	if analyticsKey == "" {
		logger.Fatal().Msg("UnleashNFTs API key is required. Set UNLEASH_API_KEY environment variable or use -unleash-key flag")
	}

	baseURL := *unleashURL
	if baseURL == "" {
		baseURL = os.Getenv("UNLEASH_API_URL")
	}
	if baseURL == "" {
		baseURL = defaultUnleashURL
	}

	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(*model))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create language model client")
	}

	responseCache := newCache(logger)
	analytics := unleash.NewClient(baseURL, analyticsKey, responseCache, logger)
	agents := agent.New(llm, analytics, logger)

	if *query != "" {
		runOnce(agents, *query, *agentType, *wallet, logger)
		return
	}

	runServer(*httpAddr, agents, logger)
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// newCache picks the response cache backend: Redis when REDIS_ADDR is set,
// otherwise in-process. A cache failure degrades to no caching rather than
// refusing to start.
func newCache(logger zerolog.Logger) cache.Cache {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c, err := cache.NewRedisCache(ctx, addr, "aelys", cache.InsightTTL)
		if err != nil {
			logger.Warn().Err(err).Str("addr", addr).Msg("redis unavailable, continuing without cache")
			return nil
		}
		logger.Info().Str("addr", addr).Msg("using redis response cache")
		return c
	}

	c, err := cache.NewMemoryCache(64<<20, cache.InsightTTL)
	if err != nil {
		logger.Warn().Err(err).Msg("in-process cache unavailable, continuing without cache")
		return nil
	}
	return c
}

// runOnce answers a single query on stdout, mirroring the server's routing
// for the chosen agent.
func runOnce(agents *agent.Agents, query, agentType, wallet string, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var resp *models.AgentResponse
	switch models.AgentType(agentType) {
	case models.AgentMarketInsights:
		resp = agents.MarketAlpha(ctx, query, nil)
	case models.AgentCopilot:
		resp = agents.Copilot(ctx, query, wallet, nil)
	case models.AgentGeneral:
		resp = agents.General(ctx, query, nil)
	default:
		logger.Fatal().Str("agent", agentType).Msg("unknown agent type, use copilot, market-insights, or empty")
		return
	}

	fmt.Println(resp.Answer)
	if resp.Error != "" {
		logger.Warn().Str("error", resp.Error).Msg("query completed with error")
	}
}

func runServer(httpAddr string, agents *agent.Agents, logger zerolog.Logger) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	server := api.NewServer(httpAddr, agents, logger)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info().Msg("Aelys service started successfully")
	logger.Info().Msgf("  Health: http://localhost%s/health", httpAddr)
	logger.Info().Msgf("  Chains: http://localhost%s/api/v1/chains", httpAddr)
	logger.Info().Msgf("  Agent: POST http://localhost%s/api/v1/agent", httpAddr)

	select {
	case sig := <-signalChan:
		logger.Info().Str("signal", sig.String()).Msg("received signal")
	case err := <-errChan:
		logger.Error().Err(err).Msg("server error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error shutting down HTTP server")
	}
	logger.Info().Msg("shutdown completed")
}
