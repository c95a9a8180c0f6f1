// Package filter narrows a program dataset to the rows matching a set of
// independent, optional criteria.
package filter

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
)

// UnboundedDistanceMiles is the distance at or above which the distance
// filter is switched off.
const UnboundedDistanceMiles = 2500.0

// Annual disables the climate filter.
const Annual time.Month = 0

// ErrInvalidCriteria is wrapped by every Criteria.Validate failure.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Range is an inclusive numeric bound.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Covers reports whether r spans all of [lo, hi].
func (r Range) Covers(lo, hi float64) bool {
	return r.Min <= lo && r.Max >= hi
}

// Criteria is a set of independent, optional predicates. The zero value
// matches every program. Empty sets and nil ranges mean "no restriction".
type Criteria struct {
	Divisions             []int    `json:"divisions,omitempty"`
	Conferences           []string `json:"conferences,omitempty"`
	Regions               []int    `json:"regions,omitempty"`
	Locales               []int    `json:"locales,omitempty"`
	Controls              []int    `json:"controls,omitempty"`
	EnrollmentBands       []string `json:"enrollment_bands,omitempty"`
	ReligiousAffiliations []int    `json:"religious_affiliations,omitempty"`

	WinPct     *Range `json:"win_pct,omitempty"`
	AcceptRate *Range `json:"accept_rate,omitempty"`
	TestScore  *Range `json:"test_score,omitempty"`

	MaxDistanceMiles float64     `json:"max_distance_miles,omitempty"`
	Home             *domain.Geo `json:"home,omitempty"`

	RankedOnly bool `json:"ranked_only,omitempty"`

	Month         time.Month `json:"month,omitempty"`
	Temperature   *Range     `json:"temperature,omitempty"`
	Precipitation *Range     `json:"precipitation,omitempty"`
	CloudCover    *Range     `json:"cloud_cover,omitempty"`
}

// Validate rejects criteria the engine cannot evaluate meaningfully.
func (c Criteria) Validate() error {
	ranges := map[string]*Range{
		"win_pct":       c.WinPct,
		"accept_rate":   c.AcceptRate,
		"test_score":    c.TestScore,
		"temperature":   c.Temperature,
		"precipitation": c.Precipitation,
		"cloud_cover":   c.CloudCover,
	}
	for name, r := range ranges {
		if r == nil {
			continue
		}
		if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
			return fmt.Errorf("%s: NaN bound: %w", name, ErrInvalidCriteria)
		}
		if r.Min > r.Max {
			return fmt.Errorf("%s: min %g > max %g: %w", name, r.Min, r.Max, ErrInvalidCriteria)
		}
	}
	if c.Month < Annual || c.Month > time.December {
		return fmt.Errorf("month %d: %w", c.Month, ErrInvalidCriteria)
	}
	if c.MaxDistanceMiles < 0 || math.IsNaN(c.MaxDistanceMiles) {
		return fmt.Errorf("max distance %g: %w", c.MaxDistanceMiles, ErrInvalidCriteria)
	}
	return nil
}

// distanceActive reports whether the distance gate applies.
func (c Criteria) distanceActive() bool {
	return c.Home != nil && c.MaxDistanceMiles > 0 && c.MaxDistanceMiles < UnboundedDistanceMiles
}

// percentRangeActive treats nil or a range covering [0,100] as inactive.
func percentRangeActive(r *Range) bool {
	return r != nil && !r.Covers(0, 100)
}

// Active lists the dimensions that restrict the result, for logging.
func (c Criteria) Active() []string {
	var active []string
	add := func(on bool, name string) {
		if on {
			active = append(active, name)
		}
	}
	add(len(c.Divisions) > 0, "division")
	add(len(c.Conferences) > 0, "conference")
	add(len(c.Regions) > 0, "region")
	add(len(c.Locales) > 0, "locale")
	add(len(c.Controls) > 0, "control")
	add(len(selectedBands(c.EnrollmentBands)) > 0, "enrollment")
	add(len(c.ReligiousAffiliations) > 0, "religious_affiliation")
	add(percentRangeActive(c.WinPct), "win_pct")
	add(percentRangeActive(c.AcceptRate), "accept_rate")
	add(c.TestScore != nil, "test_score")
	add(c.distanceActive(), "distance")
	add(c.RankedOnly, "ranked")
	add(c.Month != Annual, "climate")
	return active
}
