package http

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"

	"ledger/internal/app"
	"ledger/internal/log"
)

type Options struct {
	Logger *log.Logger

	// CORSOrigins lists allowed browser origins; empty disables CORS.
	CORSOrigins []string

	// RateLimit is the number of mutating requests allowed per client per
	// minute. Zero uses 60.
	RateLimit int

	// Ready reports whether dependencies are usable; nil means always ready.
	Ready func(context.Context) error
}

type Server struct {
	http.Server
	app         *app.App
	logger      *log.Logger
	ready       func(context.Context) error
	rateLimiter *rateLimiter
	metrics     securityMetrics
}

func NewServer(addr string, a *app.App, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 60
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		app:         a,
		logger:      opts.Logger.WithComponent(log.ComponentHTTP),
		ready:       opts.Ready,
		rateLimiter: newRateLimiter(opts.RateLimit, time.Minute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/totals", s.handleTotals)
	mux.HandleFunc("GET /api/months", s.handleMonths)
	mux.HandleFunc("GET /api/days", s.handleDays)
	mux.HandleFunc("GET /api/years", s.handleYears)
	mux.HandleFunc("GET /api/report", s.handleReport)

	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/payment-methods", s.handlePaymentMethods)
	mux.HandleFunc("GET /api/defaults", s.handleDefaults)

	mux.HandleFunc("GET /api/draft", s.handleGetDraft)
	mux.HandleFunc("POST /api/draft", s.handleSaveDraft)
	mux.HandleFunc("POST /api/editing/{id}", s.handleBeginEdit)
	mux.HandleFunc("DELETE /api/editing", s.handleCancelEdit)

	var handler http.Handler = s.withSecurity(mux)
	if len(opts.CORSOrigins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "Location", "Content-Disposition"},
		})
		handler = c.Handler(handler)
	}
	s.Handler = log.RequestMiddleware(s.logger, requestID, extractClientIP)(handler)
	return s
}

// Start begins background maintenance. ListenAndServe does not call it so
// tests can drive the handler directly.
func (s *Server) Start() {
	s.rateLimiter.start()
}

// Shutdown stops background work and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.stop()
	stats := s.metrics.snapshot()
	s.logger.InfoContext(ctx, "HTTP server shutting down",
		"rate_limit_hits", stats.RateLimitHits,
		"suspicious_requests", stats.SuspiciousRequests)
	return s.Server.Shutdown(ctx)
}

// SecurityStats returns the security counters.
func (s *Server) SecurityStats() SecurityStats {
	return s.metrics.snapshot()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
