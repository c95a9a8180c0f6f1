// Package shortlist wires the dataset, the three engines and the persistence
// collaborators into the operations the HTTP API and the CLI expose.
package shortlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/baseball-program-finder/internal/dataset"
	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/couchcryptid/baseball-program-finder/internal/filter"
	"github.com/couchcryptid/baseball-program-finder/internal/fit"
	"github.com/couchcryptid/baseball-program-finder/internal/observability"
	"github.com/couchcryptid/baseball-program-finder/internal/roster"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// ErrProgramNotFound is returned for a program id absent from the dataset.
var ErrProgramNotFound = errors.New("program not found")

// ErrGeocoderUnavailable is returned by GeocodeHome when no geocoder is configured.
var ErrGeocoderUnavailable = errors.New("geocoder not configured")

// DefaultConcurrency bounds MetricsFor when Deps leaves it unset.
const DefaultConcurrency = 4

// readinessChecker is implemented by stores that can report their health.
type readinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Deps are the collaborators of a Service. Publisher and Geocoder are optional.
type Deps struct {
	Dataset     *dataset.Dataset
	Analyzer    *roster.Analyzer
	Classifier  *fit.Classifier
	Store       fit.Store
	Publisher   fit.Publisher
	Geocoder    domain.Geocoder
	Logger      *slog.Logger
	Metrics     *observability.Metrics
	Clock       clockwork.Clock
	Concurrency int
}

// Service answers shortlist queries over an immutable dataset.
type Service struct {
	data        *dataset.Dataset
	engine      *filter.Engine
	analyzer    *roster.Analyzer
	classifier  *fit.Classifier
	store       fit.Store
	publisher   fit.Publisher
	geocoder    domain.Geocoder
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	concurrency int
}

// New creates a Service. Dataset, Analyzer, Classifier, Store, Logger and
// Metrics are required.
func New(d Deps) *Service {
	if d.Clock == nil {
		d.Clock = domain.Clock()
	}
	if d.Concurrency <= 0 {
		d.Concurrency = DefaultConcurrency
	}
	for table, n := range d.Dataset.Counts() {
		d.Metrics.DatasetRows.WithLabelValues(table).Set(float64(n))
	}
	return &Service{
		data:        d.Dataset,
		engine:      filter.New(d.Dataset.Climate),
		analyzer:    d.Analyzer,
		classifier:  d.Classifier,
		store:       d.Store,
		publisher:   d.Publisher,
		geocoder:    d.Geocoder,
		logger:      d.Logger,
		metrics:     d.Metrics,
		clock:       d.Clock,
		concurrency: d.Concurrency,
	}
}

// CheckReadiness reports ready once a non-empty dataset is loaded and the
// store answers.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if len(s.data.Programs) == 0 {
		return errors.New("dataset has no programs")
	}
	if rc, ok := s.store.(readinessChecker); ok {
		return rc.CheckReadiness(ctx)
	}
	return nil
}

// Search filters the full dataset. A degraded result carries every program
// and is logged and counted.
func (s *Service) Search(_ context.Context, c filter.Criteria) filter.Result {
	start := time.Now()
	res := s.engine.Apply(s.data.Programs, c)
	s.metrics.FilterDuration.Observe(time.Since(start).Seconds())
	s.metrics.SearchRequests.Inc()
	s.metrics.SearchResults.Observe(float64(len(res.Programs)))

	if res.Degraded {
		s.metrics.SearchDegraded.Inc()
		s.logger.Warn("filter failed, returning unfiltered dataset",
			"error", res.Err,
			"active", c.Active(),
			"programs", len(res.Programs),
		)
		return res
	}
	s.logger.Debug("search evaluated", "active", c.Active(), "matched", len(res.Programs))
	return res
}

// Program looks up a program by id.
func (s *Service) Program(id int64) (domain.ProgramRecord, error) {
	p, ok := s.data.Program(id)
	if !ok {
		return domain.ProgramRecord{}, fmt.Errorf("program %d: %w", id, ErrProgramNotFound)
	}
	return p, nil
}

// MetricsFor computes roster analytics for each id, concurrently. Results
// follow the order of ids.
func (s *Service) MetricsFor(ctx context.Context, ids []int64) ([]roster.ProgramMetrics, error) {
	programs := make([]domain.ProgramRecord, len(ids))
	for i, id := range ids {
		p, err := s.Program(id)
		if err != nil {
			return nil, err
		}
		programs[i] = p
	}

	start := time.Now()
	out := make([]roster.ProgramMetrics, len(programs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, p := range programs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = s.analyzer.Metrics(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("roster metrics: %w", err)
	}
	s.metrics.MetricsDuration.Observe(time.Since(start).Seconds())
	return out, nil
}

// Score computes the fit bundle with its suggested tier.
func (s *Service) Score(profile domain.UserProfile, programID int64) (domain.FitScoreBundle, error) {
	p, err := s.Program(programID)
	if err != nil {
		return domain.FitScoreBundle{}, err
	}
	return s.classifier.Classify(profile, p)
}
