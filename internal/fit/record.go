package fit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
)

// ErrNotFound is returned by a Store when no record exists for a key.
var ErrNotFound = errors.New("classification not found")

// ErrInvalidClassification is returned by Record for an unknown tier.
var ErrInvalidClassification = errors.New("invalid classification")

// Store persists classification records keyed by RecordKey. Upsert is
// idempotent and the last write wins.
type Store interface {
	Upsert(ctx context.Context, rec domain.ClassificationRecord) error
	Get(ctx context.Context, userID string, programID int64) (domain.ClassificationRecord, error)
	List(ctx context.Context, userID string) ([]domain.ClassificationRecord, error)
	UpdateNotes(ctx context.Context, userID string, programID int64, notes string, at time.Time) error
}

// Publisher emits a change event for every saved classification.
type Publisher interface {
	Publish(ctx context.Context, rec domain.ClassificationRecord) error
	Close() error
}

// Record builds the record a Store persists. When chosen is nil the
// suggested tier is used and AutoSuggested is set; otherwise the user's
// choice is kept verbatim.
func (c *Classifier) Record(userID string, p domain.ProgramRecord, bundle domain.FitScoreBundle, chosen *domain.Classification, notes string) (domain.ClassificationRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.ClassificationRecord{}, fmt.Errorf("empty user id: %w", ErrInvalidClassification)
	}

	suggested := Suggest(bundle.OverallScore)
	bundle.Classification = suggested

	rec := domain.ClassificationRecord{
		UserID:         userID,
		ProgramID:      p.ProgramID,
		ProgramName:    p.Name,
		Classification: suggested,
		Suggested:      suggested,
		AutoSuggested:  true,
		Scores:         bundle,
		Notes:          notes,
	}
	if chosen != nil {
		if !validTier(*chosen) {
			return domain.ClassificationRecord{}, fmt.Errorf("tier %q: %w", *chosen, ErrInvalidClassification)
		}
		rec.Classification = *chosen
		rec.AutoSuggested = false
	}

	now := c.clock.Now().UTC()
	rec.ClassifiedAt = now
	rec.UpdatedAt = now
	return rec, nil
}

func validTier(c domain.Classification) bool {
	switch c {
	case domain.Safety, domain.Target, domain.Reach:
		return true
	default:
		return false
	}
}

// Summary counts a user's classifications per tier.
type Summary struct {
	Safety int `json:"safety"`
	Target int `json:"target"`
	Reach  int `json:"reach"`
	Total  int `json:"total"`
}

// Summarize tallies records by their stored classification.
func Summarize(records []domain.ClassificationRecord) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch r.Classification {
		case domain.Safety:
			s.Safety++
		case domain.Target:
			s.Target++
		case domain.Reach:
			s.Reach++
		}
	}
	return s
}
