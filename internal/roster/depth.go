package roster

import (
	"strings"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
)

// PositionGroup buckets raw roster position strings.
type PositionGroup string

const (
	Pitcher    PositionGroup = "P"
	Catcher    PositionGroup = "C"
	Infielder  PositionGroup = "IF"
	Outfielder PositionGroup = "OF"
)

var infieldTokens = []string{"1B", "2B", "3B", "SS", "IF", "INF"}
var outfieldTokens = []string{"OF", "LF", "CF", "RF"}

// GroupPosition applies the ordered bucketing rules. It reports false for
// positions that fit no group, such as DH or UTIL.
func GroupPosition(raw string) (PositionGroup, bool) {
	pos := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.Contains(pos, "P") && pos != "DH":
		return Pitcher, true
	case pos == "C":
		return Catcher, true
	case containsAny(pos, infieldTokens) && !strings.Contains(pos, "OF"):
		return Infielder, true
	case containsAny(pos, outfieldTokens):
		return Outfielder, true
	default:
		return "", false
	}
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// ClassShare is a class-year head count and its share of the roster.
type ClassShare struct {
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// ClassDistribution counts players per class year. Percentages are taken
// over every roster row of the year, so they need not sum to 100.
type ClassDistribution struct {
	Freshman  ClassShare `json:"Fr"`
	Sophomore ClassShare `json:"So"`
	Junior    ClassShare `json:"Jr"`
	Senior    ClassShare `json:"Sr"`
	Total     int        `json:"total"`
}

// Depth is the positional and class make-up of the most recent roster.
type Depth struct {
	Year             int               `json:"year"`
	Pitchers         int               `json:"pitchers"`
	Catchers         int               `json:"catchers"`
	Infielders       int               `json:"infielders"`
	Outfielders      int               `json:"outfielders"`
	Classes          ClassDistribution `json:"classes"`
	AvgPitcherHeight float64           `json:"avg_pitcher_height_in"`
	AvgOtherHeight   float64           `json:"avg_other_height_in"`
}

// PositionDepth reports the roster make-up for the most recent roster year
// present for the program.
func (a *Analyzer) PositionDepth(programID int64) (Depth, bool) {
	entries := a.rosters[programID]
	if len(entries) == 0 {
		return Depth{}, false
	}
	year := latestYear(entries)

	d := Depth{Year: year}
	var pitcherHeights, otherHeights heightAvg
	counts := map[domain.ClassYear]int{}
	for _, e := range entries {
		if e.Year != year {
			continue
		}
		d.Classes.Total++
		counts[domain.ParseClassYear(e.Class)]++

		group, ok := GroupPosition(e.Position)
		switch {
		case !ok:
		case group == Pitcher:
			d.Pitchers++
		case group == Catcher:
			d.Catchers++
		case group == Infielder:
			d.Infielders++
		case group == Outfielder:
			d.Outfielders++
		}

		if group == Pitcher {
			pitcherHeights.add(e.HeightInches)
		} else {
			otherHeights.add(e.HeightInches)
		}
	}

	share := func(c domain.ClassYear) ClassShare {
		n := counts[c]
		return ClassShare{Count: n, Pct: domain.Round1(float64(n) / float64(d.Classes.Total) * 100)}
	}
	d.Classes.Freshman = share(domain.Freshman)
	d.Classes.Sophomore = share(domain.Sophomore)
	d.Classes.Junior = share(domain.Junior)
	d.Classes.Senior = share(domain.Senior)
	d.AvgPitcherHeight = pitcherHeights.mean()
	d.AvgOtherHeight = otherHeights.mean()
	return d, true
}

type heightAvg struct {
	sum float64
	n   int
}

func (h *heightAvg) add(v *float64) {
	if v == nil || *v <= 0 {
		return
	}
	h.sum += *v
	h.n++
}

func (h heightAvg) mean() float64 {
	if h.n == 0 {
		return 0
	}
	return domain.Round1(h.sum / float64(h.n))
}
