package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/matching"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
	"github.com/jonathan/resume-tailor/internal/taxonomy"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Analyzer is the slice of the pipeline the server needs.
type Analyzer interface {
	Analyze(ctx context.Context, resume, jd *types.SectionedDocument, jobURL string) (*pipeline.AnalysisResult, error)
	Suggest(ctx context.Context, resume, jd *types.SectionedDocument, match *types.MatchResult, runID uuid.UUID) (*pipeline.SuggestResult, error)
	Export(ctx context.Context, resume *types.SectionedDocument, suggestions []types.Suggestion, runID uuid.UUID) string
	Engine() *matching.Engine
	Store() *taxonomy.Store
	DB() *db.DB
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	pipeline    Analyzer
	logger      *zap.Logger
	metrics     *observability.Metrics
	validate    *validator.Validate
	jwtService  *JWTService // nil means authentication is disabled
	rateLimiter *ratelimit.Limiter
	taxonomyDir string
}

// Config holds server configuration
type Config struct {
	Addr        string
	JWT         *config.JWTConfig
	TaxonomyDir string
	// RateBurst and RateRefill shape the limiter on generation-backed
	// endpoints. Zero values pick sensible defaults.
	RateBurst  int
	RateRefill float64
}

// New creates a new server instance
func New(p Analyzer, metrics *observability.Metrics, logger *zap.Logger, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = 10
	}
	if cfg.RateRefill == 0 {
		cfg.RateRefill = 0.5
	}

	s := &Server{
		pipeline:    p,
		logger:      logger,
		metrics:     metrics,
		validate:    validator.New(),
		rateLimiter: ratelimit.New(cfg.RateBurst, cfg.RateRefill),
		taxonomyDir: cfg.TaxonomyDir,
	}
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	mux := http.NewServeMux()

	// Analysis endpoints; generation-backed, so rate limited
	mux.Handle("POST /analyze", s.protected(http.HandlerFunc(s.handleAnalyze)))
	mux.Handle("POST /suggest", s.protected(http.HandlerFunc(s.handleSuggest)))
	mux.Handle("POST /export", s.withAuth(http.HandlerFunc(s.handleExport)))

	// Run endpoints (require persistence)
	mux.Handle("GET /runs", s.withAuth(http.HandlerFunc(s.handleListRuns)))
	mux.Handle("GET /runs/{id}", s.withAuth(http.HandlerFunc(s.handleGetRun)))
	mux.Handle("DELETE /runs/{id}", s.withAuth(http.HandlerFunc(s.handleDeleteRun)))

	// Configuration endpoints
	mux.Handle("GET /weights", s.withAuth(http.HandlerFunc(s.handleGetWeights)))
	mux.Handle("PUT /weights", s.withAuth(http.HandlerFunc(s.handleUpdateWeights)))
	mux.Handle("POST /taxonomy/reload", s.withAuth(http.HandlerFunc(s.handleReloadTaxonomy)))

	// Open endpoints
	mux.HandleFunc("GET /health", s.handleHealth)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for generation calls
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening for requests and blocks until shutdown
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Handler exposes the configured handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// protected wraps a handler with authentication and rate limiting.
func (s *Server) protected(next http.Handler) http.Handler {
	return s.withAuth(s.rateLimiter.Middleware(next))
}

// withAuth validates the bearer token when authentication is configured.
func (s *Server) withAuth(next http.Handler) http.Handler {
	if s.jwtService == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Fields(r.Header.Get("Authorization"))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			s.errorResponse(w, http.StatusUnauthorized, "missing or malformed bearer token")
			return
		}
		if _, err := s.jwtService.ValidateToken(parts[1]); err != nil {
			s.errorResponse(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps a domain error to a status code and writes it
func (s *Server) handleError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.errorResponse(w, status, err.Error())
}
