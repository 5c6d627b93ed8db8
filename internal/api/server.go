package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logger"
)

// Server is a thin wrapper over chi and http.Server
type Server struct {
	addr string
	mux  *chi.Mux
	srv  *http.Server
	log  *logger.Logger
}

// NewServer builds the router with middleware, health, metrics and the v1
// endpoints of h.
func NewServer(addr string, h *Handler, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Named("http")
	}
	m := chi.NewRouter()
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(accessLog(log, time.Second))

	m.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	m.Handle("/metrics", promhttp.Handler())
	h.Register(m)

	return &Server{
		addr: addr,
		mux:  m,
		log:  log,
		srv: &http.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
	}
}

// Handler returns the root handler, handy for httptest.
func (s *Server) Handler() http.Handler { return s.mux }

// Addr returns the listening address
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("http listening")
		err := s.srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errc <- err
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info().Msg("http shutting down")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
