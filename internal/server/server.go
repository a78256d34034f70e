package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/anonymize"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/detect"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/otel"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/recognize"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/store"
)

const defaultTimeout = 60 * time.Second

// Server holds the dependencies for the HTTP API. Each anonymize request
// gets a fresh session so placeholder numbering is stable within one
// document and never leaks across callers.
type Server struct {
	router      *chi.Mux
	recognizer  recognize.Recognizer
	detector    *detect.Detector
	threshold   float64
	maxWords    int
	model       string
	runStore    *store.Store
	rateLimiter *RateLimiter
	apiKeys     map[string]string
	corsOrigins []string
	startTime   time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithStore sets the run audit store (optional; runs are not persisted
// without it).
func WithStore(s *store.Store) Option {
	return func(srv *Server) { srv.runStore = s }
}

// WithRateLimiter sets the API rate limiter (optional).
func WithRateLimiter(rl *RateLimiter) Option {
	return func(srv *Server) { srv.rateLimiter = rl }
}

// WithAPIKeys sets API keys (key -> caller_id). Empty disables auth.
func WithAPIKeys(keys map[string]string) Option {
	return func(srv *Server) { srv.apiKeys = keys }
}

// WithCORSOrigins sets allowed CORS origins (e.g. ["*"]).
func WithCORSOrigins(origins []string) Option {
	return func(srv *Server) { srv.corsOrigins = origins }
}

// WithModel records the model identifier in run records.
func WithModel(model string) Option {
	return func(srv *Server) { srv.model = model }
}

// NewServer builds a Server around a recognizer and pattern detector with
// session defaults for threshold and chunking.
func NewServer(recognizer recognize.Recognizer, detector *detect.Detector, threshold float64, maxWords int, opts ...Option) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		recognizer:  recognizer,
		detector:    detector,
		threshold:   threshold,
		maxWords:    maxWords,
		corsOrigins: []string{"*"},
		startTime:   time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.apiKeys == nil {
		s.apiKeys = make(map[string]string)
	}
	return s
}

// newSession builds a per-request anonymization session. Request-supplied
// overrides are validated by the session constructor.
func (s *Server) newSession(threshold float64, maxWords int) (*anonymize.Anonymizer, error) {
	return anonymize.New(
		anonymize.WithRecognizer(s.recognizer),
		anonymize.WithDetector(s.detector),
		anonymize.WithThreshold(threshold),
		anonymize.WithMaxChunkWords(maxWords),
	)
}

// Routes returns the configured http.Handler.
func (s *Server) Routes() http.Handler {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(otel.Middleware())
	r.Use(CORSMiddleware(s.corsOrigins))

	// Unauthenticated
	r.Get("/health", s.handleHealth)
	r.Get("/v1/health", s.handleHealth)

	// Authenticated API group
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.apiKeys))
		r.Use(RateLimitMiddleware(s.rateLimiter))
		r.Use(middleware.Timeout(defaultTimeout))

		r.Post("/v1/anonymize", s.handleAnonymize)
		r.Get("/v1/runs", s.handleRunsList)
		r.Get("/v1/runs/{id}", s.handleRunGet)
	})

	return r
}
