// Package server provides the HTTP REST API for the sustainability evaluator.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/sustainability-evaluator/internal/logger"
	"github.com/jonathan/sustainability-evaluator/internal/server/ratelimit"
	"github.com/jonathan/sustainability-evaluator/internal/telemetry"
	"github.com/jonathan/sustainability-evaluator/internal/types"
)

const shutdownTimeout = 30 * time.Second

// Evaluator rates a merchant's sustainability record.
type Evaluator interface {
	Evaluate(ctx context.Context, input string) (types.Rating, error)
}

// Analyzer scrapes product pages and scores products.
type Analyzer interface {
	Scrape(ctx context.Context, rawURL string) (*types.ProductInfo, error)
	Analyze(ctx context.Context, rawURL string) (*types.AnalysisResult, error)
}

// Advisor produces purchase recommendations.
type Advisor interface {
	Recommend(ctx context.Context, req types.RecommendRequest) (string, error)
	RecommendStores(ctx context.Context, product string) (*types.StoreRecommendations, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	evaluator   Evaluator
	analyzer    Analyzer
	advisor     Advisor
	rateLimiter *ratelimit.Limiter
	metrics     *telemetry.Metrics
	log         logger.Logger
}

// Config holds server configuration
type Config struct {
	Port      int
	RateLimit ratelimit.Config
	Log       logger.Logger
	// Metrics enables GET /metrics and request instrumentation when set.
	Metrics *telemetry.Metrics
}

// New creates a new server instance
func New(cfg Config, evaluator Evaluator, analyzer Analyzer, advisor Advisor) *Server {
	if cfg.Log == nil {
		cfg.Log = logger.NewNop()
	}

	s := &Server{
		evaluator:   evaluator,
		analyzer:    analyzer,
		advisor:     advisor,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		metrics:     cfg.Metrics,
		log:         cfg.Log,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Analysis runs several model calls
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.HandleFunc("POST /evaluate", s.handleEvaluate)
	mux.HandleFunc("POST /recommend", s.handleRecommend)
	mux.HandleFunc("POST /eval", s.handleEval)
	mux.HandleFunc("POST /eval/stream", s.handleEvalStream)
	mux.HandleFunc("POST /scrape", s.handleScrape)
	mux.HandleFunc("POST /stores", s.handleStores)

	return s.withLogging(s.withCORS(s.withRateLimit(s.withRecover(mux))))
}

// Start serves requests until ctx is cancelled or the process receives
// SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer s.rateLimiter.Stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server starting", logger.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		s.log.Info("server stopped")
		return nil
	})

	return g.Wait()
}
