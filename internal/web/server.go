// Package web provides the HTTP API over the gatehouse store.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evcraddock/gatehouse/internal/logging"
	"github.com/evcraddock/gatehouse/internal/store"
	"github.com/evcraddock/gatehouse/internal/sweep"
)

const shutdownTimeout = 10 * time.Second

// Server is the gatehouse HTTP API.
type Server struct {
	store   *store.Store
	sweeper *sweep.Sweeper
	router  chi.Router
	logger  *slog.Logger
	now     func() time.Time
	loc     *time.Location
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the time source used for visibility and token checks.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLocation sets the zone "today" is computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates an API server over st. sw serves manual sweep requests.
func NewServer(st *store.Store, sw *sweep.Sweeper, opts ...Option) *Server {
	s := &Server{
		store:   st,
		sweeper: sw,
		logger:  slog.Default(),
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.apiState)
		r.Post("/sweep", s.apiSweep)
		r.Post("/tokens/validate", s.apiValidateToken)

		r.Route("/visitors", func(r chi.Router) {
			r.Get("/", s.apiListVisitors)
			r.Post("/", s.apiRegisterVisitor)
			r.Get("/{id}", s.apiGetVisitor)
			r.Patch("/{id}", s.apiUpdateVisitor)
			r.Post("/{id}/check-in", s.apiCheckIn)
			r.Post("/{id}/check-out", s.apiCheckOut)
		})

		r.Route("/residents", func(r chi.Router) {
			r.Get("/", s.apiListResidents)
			r.Post("/", s.apiAddResident)
			r.Patch("/{id}", s.apiUpdateResident)
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", s.apiListVehicles)
			r.Post("/", s.apiAddVehicle)
			r.Patch("/{id}", s.apiUpdateVehicle)
		})

		r.Route("/facilities", func(r chi.Router) {
			r.Get("/", s.apiListFacilities)
			r.Post("/{id}/bookings", s.apiBookFacility)
			r.Patch("/{id}/bookings/{bookingID}", s.apiUpdateBooking)
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Get("/", s.apiListFeedback)
			r.Post("/", s.apiAddFeedback)
			r.Patch("/{id}", s.apiUpdateFeedback)
		})

		r.Route("/announcements", func(r chi.Router) {
			r.Get("/", s.apiListAnnouncements)
			r.Post("/", s.apiAddAnnouncement)
			r.Patch("/{id}", s.apiUpdateAnnouncement)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on port until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting gatehouse API", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http: %w", err)
	}
	s.logger.Info("gatehouse API stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sweeping := "stopped"
	if s.sweeper.Running() {
		sweeping = "running"
	}
	apiJSON(w, map[string]string{"status": "ok", "sweep": sweeping}, http.StatusOK)
}

// today is the current date in the server's zone, as YYYY-MM-DD.
func (s *Server) today() string {
	return s.now().In(s.loc).Format("2006-01-02")
}
