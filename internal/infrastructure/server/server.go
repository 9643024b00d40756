// Package server exposes the simulator over HTTP: portfolio management,
// risk/return/scenario endpoints, the pure LP and staking calculators, the
// bookmark store, and a websocket feed of scenario steps.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"defisim/internal/bookmarks"
	"defisim/internal/core"
	"defisim/internal/marketdata"
	"defisim/internal/portfolio"
	"defisim/pkg/concurrency"
	"defisim/pkg/telemetry"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options carries server construction parameters.
type Options struct {
	Port                int
	ReadTimeoutSeconds  int
	WriteTimeoutSeconds int
	MaxTimeframeDays    int
	MaxPriceShockPct    float64
}

// Server is the simulator's HTTP API server.
type Server struct {
	opts     Options
	logger   core.ILogger
	metrics  *telemetry.MetricsHolder
	srv      *http.Server
	upgrader websocket.Upgrader

	manager  *portfolio.Manager
	provider *marketdata.Provider
	store    bookmarks.Store
	pool     *concurrency.WorkerPool
}

// NewServer wires the API server to its collaborators.
func NewServer(opts Options, logger core.ILogger, manager *portfolio.Manager,
	provider *marketdata.Provider, store bookmarks.Store, pool *concurrency.WorkerPool) *Server {
	if opts.MaxTimeframeDays <= 0 {
		opts.MaxTimeframeDays = 365
	}
	if opts.MaxPriceShockPct <= 0 {
		opts.MaxPriceShockPct = portfolio.MaxPriceShockPct
	}
	return &Server{
		opts:    opts,
		logger:  logger.WithField("component", "api_server"),
		metrics: telemetry.GetGlobalMetrics(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		manager:  manager,
		provider: provider,
		store:    store,
		pool:     pool,
	}
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/assets", s.instrument("assets", s.handleAssets))

	mux.HandleFunc("GET /api/positions", s.instrument("positions_list", s.handleListPositions))
	mux.HandleFunc("POST /api/positions", s.instrument("positions_add", s.handleAddPosition))
	mux.HandleFunc("DELETE /api/positions/{id}", s.instrument("positions_remove", s.handleRemovePosition))
	mux.HandleFunc("DELETE /api/positions", s.instrument("positions_clear", s.handleClearPositions))

	mux.HandleFunc("GET /api/risk", s.instrument("risk", s.handleRisk))
	mux.HandleFunc("GET /api/risk/sweep", s.instrument("risk_sweep", s.handleRiskSweep))
	mux.HandleFunc("GET /api/returns", s.instrument("returns", s.handleReturns))
	mux.HandleFunc("POST /api/simulate", s.instrument("simulate", s.handleSimulate))
	mux.HandleFunc("GET /api/simulate/stream", s.handleSimulateStream)
	mux.HandleFunc("GET /api/guidance", s.instrument("guidance", s.handleGuidance))

	mux.HandleFunc("POST /api/lp/compare", s.instrument("lp_compare", s.handleLPCompare))
	mux.HandleFunc("POST /api/lp/fees", s.instrument("lp_fees", s.handleLPFees))
	mux.HandleFunc("POST /api/staking/rewards", s.instrument("staking_rewards", s.handleStakingRewards))
	mux.HandleFunc("POST /api/staking/compare", s.instrument("staking_compare", s.handleStakingCompare))

	mux.HandleFunc("GET /api/bookmarks", s.instrument("bookmarks_list", s.handleListBookmarks))
	mux.HandleFunc("POST /api/bookmarks", s.instrument("bookmarks_add", s.handleAddBookmark))
	mux.HandleFunc("DELETE /api/bookmarks/{id}", s.instrument("bookmarks_remove", s.handleRemoveBookmark))

	return mux
}

// Start launches the server in the background.
func (s *Server) Start() {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.opts.Port),
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.opts.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.opts.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		s.logger.Info("Starting API server", "port", s.opts.Port)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("API server failed", "error", err)
		}
	}()
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	s.logger.Info("Stopping API server")
	return s.srv.Shutdown(ctx)
}

// instrument records per-route request latency.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		s.metrics.RecordRequestDuration(r.Context(), route, time.Since(start).Seconds())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(v)
}
