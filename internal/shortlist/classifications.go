package shortlist

import (
	"context"
	"fmt"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/couchcryptid/baseball-program-finder/internal/fit"
)

// SaveRequest asks to classify one program for one user. A nil Chosen keeps
// the engine's suggestion.
type SaveRequest struct {
	Profile   domain.UserProfile
	ProgramID int64
	Chosen    *domain.Classification
	Notes     string
}

// Save scores the program, stores the resulting record and publishes it to
// the changelog. A publish failure is logged and counted but does not fail
// the save.
func (s *Service) Save(ctx context.Context, req SaveRequest) (domain.ClassificationRecord, error) {
	p, err := s.Program(req.ProgramID)
	if err != nil {
		return domain.ClassificationRecord{}, err
	}
	bundle, err := s.classifier.Score(req.Profile, p)
	if err != nil {
		return domain.ClassificationRecord{}, fmt.Errorf("score program %d: %w", p.ProgramID, err)
	}
	rec, err := s.classifier.Record(req.Profile.UserID, p, bundle, req.Chosen, req.Notes)
	if err != nil {
		return domain.ClassificationRecord{}, err
	}
	if err := s.store.Upsert(ctx, rec); err != nil {
		return domain.ClassificationRecord{}, fmt.Errorf("save classification: %w", err)
	}

	source := "user"
	if rec.AutoSuggested {
		source = "auto"
	}
	s.metrics.ClassificationsSaved.WithLabelValues(string(rec.Classification), source).Inc()
	s.logger.Info("classification saved",
		"key", rec.Key(),
		"classification", rec.Classification,
		"suggested", rec.Suggested,
		"overall", rec.Scores.OverallScore,
	)

	s.publish(ctx, rec)
	return rec, nil
}

func (s *Service) publish(ctx context.Context, rec domain.ClassificationRecord) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, rec); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("classification publish failed, record is saved",
			"error", err,
			"key", rec.Key(),
		)
	}
}

// Get returns one stored classification.
func (s *Service) Get(ctx context.Context, userID string, programID int64) (domain.ClassificationRecord, error) {
	return s.store.Get(ctx, userID, programID)
}

// List returns a user's stored classifications.
func (s *Service) List(ctx context.Context, userID string) ([]domain.ClassificationRecord, error) {
	return s.store.List(ctx, userID)
}

// UpdateNotes replaces the notes on a stored classification and republishes it.
func (s *Service) UpdateNotes(ctx context.Context, userID string, programID int64, notes string) (domain.ClassificationRecord, error) {
	if err := s.store.UpdateNotes(ctx, userID, programID, notes, s.clock.Now().UTC()); err != nil {
		return domain.ClassificationRecord{}, err
	}
	rec, err := s.store.Get(ctx, userID, programID)
	if err != nil {
		return domain.ClassificationRecord{}, err
	}
	s.publish(ctx, rec)
	return rec, nil
}

// Summary counts a user's classifications per tier.
func (s *Service) Summary(ctx context.Context, userID string) (fit.Summary, error) {
	recs, err := s.store.List(ctx, userID)
	if err != nil {
		return fit.Summary{}, err
	}
	return fit.Summarize(recs), nil
}
