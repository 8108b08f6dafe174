// Package server provides the HTTP server and routing for the benchmarking dashboard.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/meridianlake/fundbench/internal/events"
	"github.com/meridianlake/fundbench/internal/metrics"
	"github.com/meridianlake/fundbench/internal/modules/auth"
	benchmarkhandlers "github.com/meridianlake/fundbench/internal/modules/benchmark/handlers"
	"github.com/meridianlake/fundbench/internal/modules/catalog"
	"github.com/meridianlake/fundbench/pkg/embedded"
)

// Config holds server configuration
type Config struct {
	Port             int
	DevMode          bool
	Log              zerolog.Logger
	AuthService      *auth.Service
	AuthHandler      *auth.Handler
	CatalogHandler   *catalog.Handler
	BenchmarkHandler *benchmarkhandlers.Handler
	EventBus         *events.Bus
	Metrics          *metrics.Metrics
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	cfg    Config
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		cfg:    cfg,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check and Prometheus metrics stay outside the access gate
	s.router.Get("/health", s.handleHealth)
	if s.cfg.Metrics != nil {
		s.router.Handle("/metrics", s.cfg.Metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		s.cfg.AuthHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(s.cfg.AuthService.Middleware)

			s.cfg.AuthHandler.RegisterProtectedRoutes(r)
			s.cfg.CatalogHandler.RegisterRoutes(r)
			s.cfg.BenchmarkHandler.RegisterRoutes(r)

			r.Get("/events/ws", s.handleEventsWS)

			r.Route("/system", func(r chi.Router) {
				r.Get("/status", s.handleSystemStatus)
			})
		})
	})

	// Embedded dashboard
	static, err := fs.Sub(embedded.Files, "static")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to mount embedded dashboard")
		return
	}
	s.router.Handle("/*", http.FileServer(http.FS(static)))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests and feeds the latency histogram
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		if s.cfg.Metrics != nil {
			// Label with the route pattern, not the raw path, to keep the
			// histogram's cardinality bounded
			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			s.cfg.Metrics.ObserveHTTP(r.Method, pattern, strconv.Itoa(ww.Status()), duration)
		}

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", duration).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
