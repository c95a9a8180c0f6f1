// Package roster derives multi-season analytics for a single program from
// roster rows and published team history.
package roster

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
)

// DefaultWindowYears is the trajectory window used when Options leaves it unset.
const DefaultWindowYears = 10

// ErrInvalidOptions is returned by New for unusable options.
var ErrInvalidOptions = errors.New("invalid roster analyzer options")

// Options configures an Analyzer.
type Options struct {
	// CurrentSeasonEndYear is the end year of the most recent completed season.
	CurrentSeasonEndYear int
	// WindowYears is the number of seasons, ending at CurrentSeasonEndYear,
	// considered for the trajectory.
	WindowYears int
}

// Analyzer answers per-program roster questions over an immutable dataset.
// It is safe for concurrent use.
type Analyzer struct {
	opts    Options
	rosters map[int64][]domain.RosterEntry
	history map[int64][]domain.TeamHistoryRecord
}

// New indexes rosters and history by program. The inputs are not retained.
func New(rosters []domain.RosterEntry, history []domain.TeamHistoryRecord, opts Options) (*Analyzer, error) {
	if opts.WindowYears == 0 {
		opts.WindowYears = DefaultWindowYears
	}
	if opts.CurrentSeasonEndYear <= 0 {
		return nil, fmt.Errorf("current season end year %d: %w", opts.CurrentSeasonEndYear, ErrInvalidOptions)
	}
	if opts.WindowYears < 2 {
		return nil, fmt.Errorf("window of %d years: %w", opts.WindowYears, ErrInvalidOptions)
	}

	a := &Analyzer{
		opts:    opts,
		rosters: make(map[int64][]domain.RosterEntry),
		history: make(map[int64][]domain.TeamHistoryRecord),
	}
	for _, r := range rosters {
		a.rosters[r.ProgramID] = append(a.rosters[r.ProgramID], r)
	}
	for _, h := range history {
		a.history[h.ProgramID] = append(a.history[h.ProgramID], h)
	}
	return a, nil
}

// Options returns the effective options, with defaults applied.
func (a *Analyzer) Options() Options {
	return a.opts
}

// latestYear returns the most recent roster year present for entries.
func latestYear(entries []domain.RosterEntry) int {
	latest := 0
	for _, e := range entries {
		if e.Year > latest {
			latest = e.Year
		}
	}
	return latest
}
