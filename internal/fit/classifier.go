// Package fit scores how well a program suits a player and suggests a
// Safety/Target/Reach tier. Suggestions never override a user's own choice.
package fit

import (
	"fmt"
	"math"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/jonboulle/clockwork"
)

const (
	baseScore      = 50.0
	athleticWeight = 0.6
	academicWeight = 0.4

	safetyThreshold = 75.0
	targetThreshold = 50.0
)

// InvalidProgramError reports a program whose fields cannot be scored.
type InvalidProgramError struct {
	ProgramID int64
	Field     string
	Value     any
}

func (e *InvalidProgramError) Error() string {
	return fmt.Sprintf("program %d: invalid %s %v", e.ProgramID, e.Field, e.Value)
}

// Classifier computes fit scores and builds classification records.
type Classifier struct {
	clock clockwork.Clock
}

// New creates a Classifier. A nil clock uses the package clock from domain.
func New(clock clockwork.Clock) *Classifier {
	if clock == nil {
		clock = domain.Clock()
	}
	return &Classifier{clock: clock}
}

// Score computes athletic, academic and overall fit. The returned bundle's
// Classification is left empty; see Classify.
func (c *Classifier) Score(profile domain.UserProfile, p domain.ProgramRecord) (domain.FitScoreBundle, error) {
	if err := validateProgram(p); err != nil {
		return domain.FitScoreBundle{}, err
	}

	athletic := athleticScore(p)
	academic := academicScore(profile.Academic, p)
	return domain.FitScoreBundle{
		AthleticScore: athletic,
		AcademicScore: academic,
		OverallScore:  domain.Round1(athleticWeight*athletic + academicWeight*academic),
	}, nil
}

// Classify is Score with the suggested tier filled in.
func (c *Classifier) Classify(profile domain.UserProfile, p domain.ProgramRecord) (domain.FitScoreBundle, error) {
	b, err := c.Score(profile, p)
	if err != nil {
		return domain.FitScoreBundle{}, err
	}
	b.Classification = Suggest(b.OverallScore)
	return b, nil
}

// Suggest maps an overall score to a tier. Thresholds are inclusive.
func Suggest(overall float64) domain.Classification {
	switch {
	case overall >= safetyThreshold:
		return domain.Safety
	case overall >= targetThreshold:
		return domain.Target
	default:
		return domain.Reach
	}
}

func validateProgram(p domain.ProgramRecord) error {
	if math.IsNaN(p.WinPct) || p.WinPct < 0 || p.WinPct > 100 {
		return &InvalidProgramError{ProgramID: p.ProgramID, Field: "win_pct", Value: p.WinPct}
	}
	if p.Division < 1 || p.Division > 3 {
		return &InvalidProgramError{ProgramID: p.ProgramID, Field: "division", Value: p.Division}
	}
	return nil
}

// athleticScore favours weaker teams and lower divisions, where a roster
// spot is easier to earn.
func athleticScore(p domain.ProgramRecord) float64 {
	score := baseScore
	switch {
	case p.WinPct < 40:
		score += 20
	case p.WinPct < 60:
		score += 10
	case p.WinPct > 75:
		score -= 10
	}
	switch p.Division {
	case 3:
		score += 15
	case 2:
		score += 5
	}
	return clamp(score)
}

func academicScore(academic domain.AcademicInfo, p domain.ProgramRecord) float64 {
	score := baseScore

	if userSAT := academic.SATTotal(); userSAT > 0 && p.TestScore > 0 {
		diff := userSAT - p.TestScore
		switch {
		case diff > 100:
			score += 20
		case diff > 0:
			score += 10
		case diff > -100:
			score -= 10
		default:
			score -= 20
		}
	}

	if p.AcceptRatePct != nil {
		switch rate := *p.AcceptRatePct; {
		case rate > 70:
			score += 15
		case rate > 50:
			score += 5
		case rate < 20:
			score -= 15
		case rate < 35:
			score -= 5
		}
	}
	return clamp(score)
}

func clamp(score float64) float64 {
	return math.Min(math.Max(score, 0), 100)
}
