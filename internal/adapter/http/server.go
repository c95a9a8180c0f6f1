package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/couchcryptid/baseball-program-finder/internal/filter"
	"github.com/couchcryptid/baseball-program-finder/internal/fit"
	"github.com/couchcryptid/baseball-program-finder/internal/roster"
	"github.com/couchcryptid/baseball-program-finder/internal/shortlist"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service is the application surface the API exposes.
type Service interface {
	sharedobs.ReadinessChecker
	Search(ctx context.Context, c filter.Criteria) filter.Result
	Program(id int64) (domain.ProgramRecord, error)
	MetricsFor(ctx context.Context, ids []int64) ([]roster.ProgramMetrics, error)
	Score(profile domain.UserProfile, programID int64) (domain.FitScoreBundle, error)
	Save(ctx context.Context, req shortlist.SaveRequest) (domain.ClassificationRecord, error)
	Get(ctx context.Context, userID string, programID int64) (domain.ClassificationRecord, error)
	List(ctx context.Context, userID string) ([]domain.ClassificationRecord, error)
	UpdateNotes(ctx context.Context, userID string, programID int64, notes string) (domain.ClassificationRecord, error)
	Summary(ctx context.Context, userID string) (fit.Summary, error)
	GeocodeHome(ctx context.Context, zip string) (*domain.Geo, error)
}

// Server exposes the program finder API plus health, readiness and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	svc        Service
	logger     *slog.Logger
}

// NewServer creates an HTTP server routing to svc.
func NewServer(addr string, svc Service, logger *slog.Logger) *Server {
	s := &Server{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(svc))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/enrollment-bands", s.handleBands)
		r.Get("/geocode", s.handleGeocode)

		r.Route("/programs", func(r chi.Router) {
			r.Post("/search", s.handleSearch)
			r.Post("/metrics", s.handleBatchMetrics)
			r.Route("/{programID}", func(r chi.Router) {
				r.Get("/", s.handleProgram)
				r.Get("/metrics", s.handleProgramMetrics)
				r.Post("/fit", s.handleFit)
			})
		})

		r.Route("/users/{userID}/classifications", func(r chi.Router) {
			r.Get("/", s.handleListClassifications)
			r.Get("/summary", s.handleSummary)
			r.Route("/{programID}", func(r chi.Router) {
				r.Get("/", s.handleGetClassification)
				r.Put("/", s.handleSaveClassification)
				r.Patch("/notes", s.handleUpdateNotes)
			})
		})
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
