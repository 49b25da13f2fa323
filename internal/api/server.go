package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/aelys/aelys/internal/agent"
	"github.com/aelys/aelys/internal/classify"
	"github.com/aelys/aelys/internal/models"
)

// requestTimeout bounds one full orchestration, covering every model and
// analytics round a request can trigger.
const requestTimeout = 300 * time.Second

const missingQueryAnswer = "Please provide a question or request for me to help you with."

const internalErrorAnswer = "I apologize, but I'm experiencing technical difficulties right now. Please try again in a moment, or rephrase your question."

const connectWalletBoundaryAnswer = "I'd love to help analyze your portfolio! However, I need access to your wallet address to provide personalized insights. Please connect your wallet or specify a wallet address in your query.\n\nOnce connected, I can help you with:\n\n• **Portfolio Analysis** - DeFi, NFT, and token breakdowns\n• **Risk Assessment** - Wallet scoring and reputation analysis\n• **Trading Insights** - Performance metrics and behavior analysis\n• **Fraud Detection** - Wash trading and suspicious activity alerts\n• **Market Intelligence** - Personalized recommendations based on your holdings\n\nConnect your wallet to get started!"

// Server is the HTTP boundary. It owns routing only; all conversation
// logic lives in the agent package.
type Server struct {
	router  *mux.Router
	agents  *agent.Agents
	address string
	logger  zerolog.Logger
	server  *http.Server
}

// NewServer creates the API server around an orchestrator set.
func NewServer(address string, agents *agent.Agents, logger zerolog.Logger) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		agents:  agents,
		address: address,
		logger:  logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.corsMiddleware)
	s.router.Use(s.recoveryMiddleware)
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/agent", s.handleAgent).Methods("POST")
	v1.HandleFunc("/chains", s.handleChains).Methods("GET")
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "aelys",
		"version":   "1.0.0",
	})
}

// handleChains lists the supported blockchain sets per endpoint family.
func (s *Server) handleChains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default":        models.DefaultBlockchain,
		"chains":         models.AllChains,
		"wallet_metrics": models.WalletMetricsChains,
	})
}

// handleAgent routes one chat request to an orchestrator. Every response,
// including errors, carries a prose answer.
func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	var req models.AgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &models.AgentResponse{
			Answer: missingQueryAnswer,
			Error:  "Invalid request body",
		})
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, &models.AgentResponse{
			Answer: missingQueryAnswer,
			Error:  "Query is required",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp := s.route(ctx, &req)
	if resp.Answer == "" {
		resp.Answer = "I apologize, but I encountered an issue processing your request. Please try rephrasing your question or contact support if the problem persists."
	}
	writeJSON(w, http.StatusOK, resp)
}

// route picks the orchestrator. The copilot path resolves which wallet to
// analyze: an address embedded in the query wins over the walletAddress
// field, which wins over the connected wallet, and the wallet is only bound
// at all for personal queries.
func (s *Server) route(ctx context.Context, req *models.AgentRequest) *models.AgentResponse {
	switch req.AgentType {
	case models.AgentMarketInsights:
		return s.agents.MarketAlpha(ctx, req.Query, req.History)

	case models.AgentCopilot:
		isWalletQuery := classify.IsWalletRelatedQuery(req.Query)
		isMarketQuery := classify.IsMarketLevelQuery(req.Query) || classify.IsMarketInsightQuery(req.Query)

		wallet := ""
		if isWalletQuery {
			switch {
			case classify.ExtractWalletAddress(req.Query) != "":
				wallet = classify.ExtractWalletAddress(req.Query)
			case req.WalletAddress != "":
				wallet = req.WalletAddress
			case req.ConnectedWallet != "":
				wallet = req.ConnectedWallet
			}
		}

		if isWalletQuery && wallet == "" {
			return &models.AgentResponse{
				Answer:   connectWalletBoundaryAnswer,
				Metadata: models.ResponseMetadata{RequiresWallet: true},
			}
		}
		if isMarketQuery {
			return s.agents.MarketAlpha(ctx, req.Query, req.History)
		}
		return s.agents.Copilot(ctx, req.Query, wallet, req.History)

	default:
		return s.agents.General(ctx, req.Query, req.History)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// recoveryMiddleware turns panics into the apologetic 500 response so the
// answer-always-populated contract holds even on bugs.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().Interface("panic", rec).
					Str("method", r.Method).Str("path", r.URL.Path).
					Msg("panic in handler")
				if w.Header().Get("Content-Type") == "" {
					writeJSON(w, http.StatusInternalServerError, &models.AgentResponse{
						Answer: internalErrorAnswer,
						Error:  "Internal server error",
					})
				}
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.RequestURI).
			Str("remote", r.RemoteAddr).
			Int("status", wrapped.statusCode).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// responseWriter captures the status code for the request log.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.address,
		Handler: s.router,

		ReadTimeout:       requestTimeout,
		WriteTimeout:      requestTimeout,
		IdleTimeout:       requestTimeout,
		ReadHeaderTimeout: 30 * time.Second,
	}

	s.logger.Info().Str("address", s.address).Msg("starting Aelys API server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("shutting down Aelys API server")
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}
	return nil
}
