package filter

import (
	"fmt"
	"math"
	"time"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
)

// predicate reports whether a program passes one criteria dimension.
type predicate func(p domain.ProgramRecord) bool

type climateKey struct {
	programID int64
	month     time.Month
}

// Engine evaluates Criteria against program records. It is safe for
// concurrent use: after New it is never written to.
type Engine struct {
	climate map[climateKey]domain.ClimateRecord
}

// Result is the outcome of Apply. When Degraded is set, Programs holds the
// full unfiltered input and Err explains why filtering was abandoned.
type Result struct {
	Programs []domain.ProgramRecord
	Degraded bool
	Err      error
}

// New indexes monthly climate rows by (program, month). Later duplicates win.
func New(climate []domain.ClimateRecord) *Engine {
	idx := make(map[climateKey]domain.ClimateRecord, len(climate))
	for _, c := range climate {
		idx[climateKey{programID: c.ProgramID, month: c.Month}] = c
	}
	return &Engine{climate: idx}
}

// Filter returns the records matching c, in input order. It never fails: see
// Apply for the fail-open policy.
func (e *Engine) Filter(records []domain.ProgramRecord, c Criteria) []domain.ProgramRecord {
	return e.Apply(records, c).Programs
}

// Apply filters records by c. Any internal failure, including invalid
// criteria, yields the unfiltered dataset with Degraded set so the caller can
// still render something and surface the degradation.
func (e *Engine) Apply(records []domain.ProgramRecord, c Criteria) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = degraded(records, fmt.Errorf("filter panic: %v", r))
		}
	}()

	if err := c.Validate(); err != nil {
		return degraded(records, err)
	}

	preds := e.predicates(c)
	out := make([]domain.ProgramRecord, 0, len(records))
	for _, p := range records {
		if matchesAll(preds, p) {
			out = append(out, p)
		}
	}
	return Result{Programs: out}
}

func degraded(records []domain.ProgramRecord, err error) Result {
	all := make([]domain.ProgramRecord, len(records))
	copy(all, records)
	return Result{Programs: all, Degraded: true, Err: err}
}

func matchesAll(preds []predicate, p domain.ProgramRecord) bool {
	for _, pred := range preds {
		if !pred(p) {
			return false
		}
	}
	return true
}

// predicates builds one predicate per active dimension.
func (e *Engine) predicates(c Criteria) []predicate {
	var preds []predicate

	if c.distanceActive() {
		home, maxMiles := *c.Home, c.MaxDistanceMiles
		preds = append(preds, func(p domain.ProgramRecord) bool {
			return distanceFrom(home, p) <= maxMiles
		})
	}
	if c.RankedOnly {
		preds = append(preds, func(p domain.ProgramRecord) bool { return p.USRank != nil })
	}
	if len(c.Divisions) > 0 {
		divisions := setOf(c.Divisions)
		preds = append(preds, func(p domain.ProgramRecord) bool { return divisions.has(p.Division) })
	}
	if len(c.Conferences) > 0 {
		conferences := setOf(c.Conferences)
		preds = append(preds, func(p domain.ProgramRecord) bool { return conferences.has(p.Conference) })
	}
	if len(c.Regions) > 0 {
		preds = append(preds, optionalMember(c.Regions, func(p domain.ProgramRecord) *int { return p.Region }))
	}
	if len(c.Locales) > 0 {
		preds = append(preds, optionalMember(c.Locales, func(p domain.ProgramRecord) *int { return p.Locale }))
	}
	if len(c.Controls) > 0 {
		preds = append(preds, optionalMember(c.Controls, func(p domain.ProgramRecord) *int { return p.Control }))
	}
	if bands := selectedBands(c.EnrollmentBands); len(bands) > 0 {
		preds = append(preds, func(p domain.ProgramRecord) bool {
			return inAnyBand(p.EnrollmentOrZero(), bands)
		})
	}
	if len(c.ReligiousAffiliations) > 0 {
		affiliations := setOf(c.ReligiousAffiliations)
		preds = append(preds, func(p domain.ProgramRecord) bool {
			return affiliations.has(p.AffiliationOrDefault())
		})
	}
	if percentRangeActive(c.WinPct) {
		r := *c.WinPct
		preds = append(preds, func(p domain.ProgramRecord) bool { return r.Contains(p.WinPct) })
	}
	if percentRangeActive(c.AcceptRate) {
		r := *c.AcceptRate
		preds = append(preds, func(p domain.ProgramRecord) bool {
			return p.AcceptRatePct != nil && r.Contains(*p.AcceptRatePct)
		})
	}
	if c.TestScore != nil {
		r := *c.TestScore
		preds = append(preds, func(p domain.ProgramRecord) bool {
			// Unknown academic data never excludes a program.
			return p.TestScore == 0 || r.Contains(p.TestScore)
		})
	}
	if c.Month != Annual {
		preds = append(preds, e.climatePredicate(c))
	}

	return preds
}

// climatePredicate passes programs with no climate row for the month, and
// fails only on a present value outside its range.
func (e *Engine) climatePredicate(c Criteria) predicate {
	month := c.Month
	temp, precip, cloud := c.Temperature, c.Precipitation, c.CloudCover
	return func(p domain.ProgramRecord) bool {
		row, ok := e.climate[climateKey{programID: p.ProgramID, month: month}]
		if !ok {
			return true
		}
		return withinOrMissing(row.Temperature, temp) &&
			withinOrMissing(row.Precipitation, precip) &&
			withinOrMissing(row.CloudCover, cloud)
	}
}

func withinOrMissing(v *float64, r *Range) bool {
	if v == nil || r == nil {
		return true
	}
	return r.Contains(*v)
}

// distanceFrom treats a program without coordinates as infinitely far away.
func distanceFrom(home domain.Geo, p domain.ProgramRecord) float64 {
	if p.Geo == nil {
		return math.Inf(1)
	}
	return domain.DistanceMiles(home, *p.Geo)
}

func optionalMember(values []int, get func(domain.ProgramRecord) *int) predicate {
	allowed := setOf(values)
	return func(p domain.ProgramRecord) bool {
		v := get(p)
		return v != nil && allowed.has(*v)
	}
}

type set[T comparable] map[T]struct{}

func setOf[T comparable](values []T) set[T] {
	s := make(set[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s set[T]) has(v T) bool {
	_, ok := s[v]
	return ok
}
