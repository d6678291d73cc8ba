// Package api exposes the business search, analysis and generation
// operations over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/bizscout/internal/generate"
	"github.com/sells-group/bizscout/internal/model"
	"github.com/sells-group/bizscout/internal/opportunity"
	"github.com/sells-group/bizscout/internal/places"
)

// Searcher runs business searches. *places.Searcher satisfies it.
type Searcher interface {
	Search(ctx context.Context, q places.Query, opts places.ExtractOptions) ([]model.Business, error)
	Raw(ctx context.Context, q places.Query) (json.RawMessage, error)
}

// Analyzer scores a location. *opportunity.Analyzer satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, req opportunity.Request) (*model.AnalysisReport, error)
}

// Generator forwards prompts. *generate.Gateway satisfies it.
type Generator interface {
	Generate(ctx context.Context, req generate.Request) (*generate.Result, error)
	ValidateKey(ctx context.Context, apiKey string) generate.KeyValidation
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the clock used for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithAllowedOrigins sets the CORS allowed origins. Empty allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// Server holds the handler dependencies.
type Server struct {
	searcher  Searcher
	analyzer  Analyzer
	generator Generator
	now       func() time.Time
	origins   []string
}

// NewServer creates a Server.
func NewServer(searcher Searcher, analyzer Analyzer, generator Generator, opts ...Option) *Server {
	s := &Server{
		searcher:  searcher,
		analyzer:  analyzer,
		generator: generator,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(observe)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/search-businesses", s.handleSearch)
	r.Post("/raw-serper-data", s.handleRaw)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/generate", s.handleGenerate)
	r.Post("/validate-key", s.handleValidateKey)
	return r
}

// timestamp returns the current time as fractional Unix seconds.
func (s *Server) timestamp() float64 {
	return float64(s.now().UnixNano()) / float64(time.Second)
}
