package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/docdeck/internal/session"
	"github.com/ziadkadry99/docdeck/internal/site"
)

// Config holds server configuration.
type Config struct {
	Port        int
	ProjectName string
	AllowAll    bool // allow all CORS origins (dev mode)
	Session     session.Config
}

// Server serves documentation pages and the live deck socket.
type Server struct {
	cfg        Config
	lib        *site.Library
	renderer   *site.Renderer
	logger     *slog.Logger
	surfaces   session.SurfaceFactory
	router     chi.Router
	httpServer *http.Server
}

// New creates a server for the pages of lib.
func New(cfg Config, lib *site.Library, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r, err := site.NewRenderer(cfg.ProjectName)
	if err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, lib: lib, renderer: r, logger: logger}
	s.router = s.buildRouter()
	return s, nil
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// The deck socket is long-lived and must not be cut by the timeout.
	r.Get("/ws/deck", s.handleDeckSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/", s.handleIndex)
		r.Get("/docs/*", s.handlePage)
		r.Get("/assets/style.css", asset("text/css; charset=utf-8", site.Stylesheet))
		r.Get("/assets/deck.js", asset("text/javascript; charset=utf-8", site.DeckScript))
	})

	return r
}

// SetSurfaceFactory replaces the allocator used for new sessions' drawing
// surfaces.
func (s *Server) SetSurfaceFactory(f session.SurfaceFactory) { s.surfaces = f }

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("docdeck server listening", "addr", addr, "docs", s.lib.DocsDir)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
