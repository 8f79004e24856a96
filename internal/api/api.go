package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/arijanluiken/candleforge/internal/engine"
	"github.com/arijanluiken/candleforge/internal/registry"
	"github.com/arijanluiken/candleforge/pkg/config"
)

// Server exposes the indicator engine over REST and WebSocket.
type Server struct {
	config     *config.Config
	logger     zerolog.Logger
	engine     *engine.Engine
	registry   *registry.Registry
	server     *http.Server
	router     chi.Router
	wsUpgrader websocket.Upgrader
}

// New creates the API server around an engine and its registry.
func New(cfg *config.Config, logger zerolog.Logger, reg *registry.Registry, eng *engine.Engine) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger,
		engine:   eng,
		registry: reg,
		wsUpgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				return true
			},
		},
	}
	s.setupRouter()
	return s
}

// Router returns the HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start launches the HTTP server in the background.
func (s *Server) Start() {
	s.logger.Info().Int("port", s.config.API.Port).Msg("Starting API server")

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.API.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.API.Timeout,
		WriteTimeout: s.config.API.Timeout,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("API server error")
		}
	}()
}

// Stop shuts the HTTP server down gracefully.
func (s *Server) Stop(ctx context.Context) {
	if s.server == nil {
		return
	}
	s.logger.Info().Msg("Stopping API server")
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Error stopping API server")
	}
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(s.config.API.Timeout))

	// CORS for development
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")

			if r.Method == "OPTIONS" {
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", s.handleHealth)

		// Indicator catalog
		r.Get("/indicators", s.handleGetIndicators)

		// Instance routes
		r.Route("/instances", func(r chi.Router) {
			r.Get("/", s.handleGetInstances)
			r.Post("/", s.handleCreateInstance)
			r.Get("/{id}", s.handleGetInstance)
			r.Delete("/{id}", s.handleRemoveInstance)
			r.Put("/{id}/params", s.handleSetParams)
			r.Put("/{id}/style", s.handleSetStyle)
			r.Put("/{id}/hidden", s.handleSetHidden)
			r.Put("/{id}/pane", s.handleMovePane)
			r.Get("/{id}/result", s.handleGetResult)
		})

		// Engine diagnostics and bar ingestion
		r.Get("/snapshot", s.handleGetSnapshot)
		r.Post("/bars", s.handleSetBars)
	})

	// WebSocket endpoint
	r.HandleFunc("/ws", s.handleWebSocket)

	s.router = r
}
