package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"listing-service/internal/core/port"
)

type ServerConfig struct {
	Port           int
	AllowedOrigins []string
	// MetricsHandler is mounted at /metrics when set
	MetricsHandler http.Handler
	// Observer receives request timings when set
	Observer HTTPObserver
}

// Server is the REST API server.
type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

func NewServer(cfg ServerConfig, handlers *Handlers, baseLogger port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           NewRouter(cfg, handlers, baseLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{httpServer: srv, logger: baseLogger}
}

// NewRouter builds the route tree. Write endpoints need the X-User-Email
// identity set by the API gateway.
func NewRouter(cfg ServerConfig, h *Handlers, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger, cfg.Observer), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-Email", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/classify", h.Classify)
		r.Get("/listings/search", h.SearchListings)
		r.Get("/listings/{id}", h.GetListing)
		r.Get("/wanted", h.ListWanted)

		r.Group(func(r chi.Router) {
			r.Use(UserEmailMiddleware)

			r.Post("/listings/draft", h.CreateDraft)
			r.Get("/listings/draft/{id}", h.GetDraft)
			r.Post("/listings/submit", h.SubmitListing)
			r.Get("/listings/my", h.ListMyListings)

			r.Post("/wanted", h.CreateWanted)
			r.Get("/wanted/my", h.ListMyWanted)
			r.Post("/wanted/{id}/close", h.CloseWanted)
			r.Post("/wanted/{id}/respond", h.RespondToWanted)

			r.Get("/saved-searches", h.ListSavedSearches)
			r.Post("/saved-searches", h.CreateSavedSearch)
			r.Delete("/saved-searches/{id}", h.DeleteSavedSearch)

			r.Get("/notifications", h.ListNotifications)
		})
	})

	return r
}

// Start blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
