package domain

import (
	"fmt"
	"strings"
	"time"
)

// Classification is a shortlist tier.
type Classification string

const (
	Safety Classification = "Safety"
	Target Classification = "Target"
	Reach  Classification = "Reach"
)

// ParseClassification accepts a tier name case-insensitively.
func ParseClassification(s string) (Classification, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "safety":
		return Safety, nil
	case "target":
		return Target, nil
	case "reach":
		return Reach, nil
	default:
		return "", fmt.Errorf("classification %q: %w", s, ErrMalformed)
	}
}

// FitScoreBundle is the output of the fit engine. Scores are in [0,100].
type FitScoreBundle struct {
	AthleticScore  float64        `json:"athletic_score"`
	AcademicScore  float64        `json:"academic_score"`
	OverallScore   float64        `json:"overall_score"`
	Classification Classification `json:"classification"`
}

// ClassificationRecord is what the storage collaborator persists for one
// (user, program) pair.
type ClassificationRecord struct {
	UserID         string         `json:"user_id"`
	ProgramID      int64          `json:"program_id"`
	ProgramName    string         `json:"program_name"`
	Classification Classification `json:"classification"`
	Suggested      Classification `json:"suggested"`
	AutoSuggested  bool           `json:"auto_suggested"`
	Scores         FitScoreBundle `json:"classification_scores"`
	Notes          string         `json:"notes"`
	ClassifiedAt   time.Time      `json:"classified_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Key returns the record's storage identity.
func (r ClassificationRecord) Key() string {
	return RecordKey(r.UserID, r.ProgramID)
}

// RecordKey builds the deterministic "{user_id}_{program_id}" key.
func RecordKey(userID string, programID int64) string {
	return fmt.Sprintf("%s_%d", userID, programID)
}
