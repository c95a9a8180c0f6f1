package roster

import (
	"sort"
	"strings"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
)

const (
	topStateSlices  = 8
	multiYearWindow = 4
	otherState      = "Other"
)

// StateDistribution is where a program's players come from.
type StateDistribution struct {
	Year      int                 `json:"year"`
	Recent    []domain.StateCount `json:"recent"`
	FromYear  int                 `json:"from_year"`
	MultiYear []domain.StateCount `json:"multi_year"`
}

// StateDistribution counts players by home state for the most recent roster
// year and for the last four roster years. Each list keeps the top eight
// states and folds the rest into "Other". Rows without a state are ignored.
func (a *Analyzer) StateDistribution(programID int64) (StateDistribution, bool) {
	entries := a.rosters[programID]
	if len(entries) == 0 {
		return StateDistribution{}, false
	}
	latest := latestYear(entries)
	from := latest - multiYearWindow + 1

	recent := map[string]int{}
	multi := map[string]int{}
	for _, e := range entries {
		state := strings.TrimSpace(e.HomeState)
		if state == "" || e.Year < from {
			continue
		}
		multi[state]++
		if e.Year == latest {
			recent[state]++
		}
	}

	return StateDistribution{
		Year:      latest,
		Recent:    topStates(recent, topStateSlices),
		FromYear:  from,
		MultiYear: topStates(multi, topStateSlices),
	}, true
}

// topStates sorts counts by count desc then state asc, keeping n entries and
// summing the remainder into an Other bucket.
func topStates(counts map[string]int, n int) []domain.StateCount {
	out := make([]domain.StateCount, 0, len(counts))
	for s, c := range counts {
		out = append(out, domain.StateCount{State: s, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].State < out[j].State
	})
	if len(out) <= n {
		return out
	}
	other := 0
	for _, s := range out[n:] {
		other += s.Count
	}
	return append(out[:n:n], domain.StateCount{State: otherState, Count: other})
}
