package roster

import (
	"sort"
	"strings"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
)

// FreshmanRetention returns the mean share of a year's freshmen who appear on
// the next roster year present, as a percentage rounded to one decimal.
// Year pairs without freshmen are skipped; false means no pair qualified.
func (a *Analyzer) FreshmanRetention(programID int64) (float64, bool) {
	players := make(map[int]map[string]struct{})
	freshmen := make(map[int]map[string]struct{})
	for _, e := range a.rosters[programID] {
		name := strings.TrimSpace(e.PlayerName)
		if name == "" {
			continue
		}
		addName(players, e.Year, name)
		if domain.ParseClassYear(e.Class) == domain.Freshman {
			addName(freshmen, e.Year, name)
		}
	}

	years := make([]int, 0, len(players))
	for y := range players {
		years = append(years, y)
	}
	sort.Ints(years)

	var sum float64
	pairs := 0
	for i := 0; i+1 < len(years); i++ {
		fr := freshmen[years[i]]
		if len(fr) == 0 {
			continue
		}
		next := players[years[i+1]]
		returned := 0
		for name := range fr {
			if _, ok := next[name]; ok {
				returned++
			}
		}
		sum += float64(returned) / float64(len(fr))
		pairs++
	}
	if pairs == 0 {
		return 0, false
	}
	return domain.Round1(sum / float64(pairs) * 100), true
}

func addName(m map[int]map[string]struct{}, year int, name string) {
	names, ok := m[year]
	if !ok {
		names = make(map[string]struct{})
		m[year] = names
	}
	names[name] = struct{}{}
}

// InStateRecruitingPct returns the share of the program's players from its
// own state, using the pre-aggregated top recruiting states. It is 0 when the
// home state or player total is unknown.
func (a *Analyzer) InStateRecruitingPct(p domain.ProgramRecord) float64 {
	home := strings.TrimSpace(p.State)
	if home == "" || p.TotalPlayers <= 0 {
		return 0
	}
	count := 0
	for _, s := range p.TopStates {
		if strings.TrimSpace(s.State) == home {
			count += s.Count
		}
	}
	return domain.Round1(float64(count) / float64(p.TotalPlayers) * 100)
}
