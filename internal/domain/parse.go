package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformed is wrapped by every parse failure in this file.
var ErrMalformed = errors.New("malformed value")

// SeasonEndYear converts a season label to the calendar year the season ends:
// "2024-25" -> 2025, "1999-00" -> 2000. A bare year ("2025") is returned as-is.
func SeasonEndYear(label string) (int, error) {
	label = strings.TrimSpace(label)
	start, _, found := strings.Cut(label, "-")
	year, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil || year <= 0 {
		return 0, fmt.Errorf("season label %q: %w", label, ErrMalformed)
	}
	if !found {
		return year, nil
	}
	return year + 1, nil
}

// ParseWinLossFraction converts fixed-point win/loss text to a fraction in
// [0,1]: ".596" -> 0.596, "-.596" -> 0.596, "1.000" -> 1, "596" -> 0.596.
func ParseWinLossFraction(s string) (float64, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimLeft(raw, "-")
	if raw == "" {
		return 0, fmt.Errorf("win/loss pct %q: %w", s, ErrMalformed)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("win/loss pct %q: %w", s, ErrMalformed)
	}
	if !strings.Contains(raw, ".") && v > 1 {
		// thousandths with the point dropped
		v /= 1000
	}
	if math.IsNaN(v) || v < 0 || v > 1 {
		return 0, fmt.Errorf("win/loss pct %q out of range: %w", s, ErrMalformed)
	}
	return v, nil
}

// ClassYear is a normalized roster class.
type ClassYear int

const (
	ClassUnknown ClassYear = iota
	Freshman
	Sophomore
	Junior
	Senior
)

func (c ClassYear) String() string {
	switch c {
	case Freshman:
		return "Fr"
	case Sophomore:
		return "So"
	case Junior:
		return "Jr"
	case Senior:
		return "Sr"
	default:
		return ""
	}
}

// ParseClassYear normalizes a roster class token. Unrecognized tokens
// (graduate students, blanks) map to ClassUnknown.
func ParseClassYear(token string) ClassYear {
	t := strings.ToLower(strings.TrimSpace(token))
	t = strings.TrimSuffix(t, ".")
	switch t {
	case "fr", "freshman":
		return Freshman
	case "so", "sophomore":
		return Sophomore
	case "jr", "junior":
		return Junior
	case "sr", "senior":
		return Senior
	default:
		return ClassUnknown
	}
}
