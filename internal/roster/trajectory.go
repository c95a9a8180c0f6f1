package roster

import (
	"sort"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
)

// Trend is the direction of a program's win percentage over the window.
type Trend string

const (
	Improving Trend = "improving"
	Declining Trend = "declining"
	Stable    Trend = "stable"
)

// trendThreshold is the slope, in fraction per season, separating stable from
// a real trend.
const trendThreshold = 0.01

type trendStyle struct {
	glyph string
	color string
}

var trendStyles = map[Trend]trendStyle{
	Improving: {glyph: "↑", color: "#28a745"},
	Declining: {glyph: "↓", color: "#dc3545"},
	Stable:    {glyph: "→", color: "#888888"},
}

// Trajectory summarizes recent seasons of a program's win percentage.
type Trajectory struct {
	Trend      Trend     `json:"trend"`
	Glyph      string    `json:"indicator"`
	Color      string    `json:"color"`
	Years      []int     `json:"years"`
	WinPcts    []float64 `json:"win_pcts"`
	CurrentPct float64   `json:"current_pct"`
	Slope      float64   `json:"slope"`
}

// Trajectory fits a least-squares line to the program's win fraction across
// the configured window. It reports false when fewer than two valid seasons
// fall inside the window.
func (a *Analyzer) Trajectory(programID int64) (Trajectory, bool) {
	first := a.opts.CurrentSeasonEndYear - a.opts.WindowYears + 1
	last := a.opts.CurrentSeasonEndYear

	byYear := make(map[int]float64)
	for _, h := range a.history[programID] {
		year, err := domain.SeasonEndYear(h.Season)
		if err != nil || year < first || year > last {
			continue
		}
		frac, err := domain.ParseWinLossFraction(h.WinLossPct)
		if err != nil {
			continue
		}
		byYear[year] = frac
	}
	if len(byYear) < 2 {
		return Trajectory{}, false
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	fracs := make([]float64, len(years))
	pcts := make([]float64, len(years))
	for i, y := range years {
		fracs[i] = byYear[y]
		pcts[i] = byYear[y] * 100
	}

	slope := olsSlope(years, fracs)
	trend := classifyTrend(slope)
	style := trendStyles[trend]

	return Trajectory{
		Trend:      trend,
		Glyph:      style.glyph,
		Color:      style.color,
		Years:      years,
		WinPcts:    pcts,
		CurrentPct: pcts[len(pcts)-1],
		Slope:      slope,
	}, true
}

func classifyTrend(slope float64) Trend {
	switch {
	case slope > trendThreshold:
		return Improving
	case slope < -trendThreshold:
		return Declining
	default:
		return Stable
	}
}

// olsSlope returns the ordinary least-squares slope of ys over xs. xs must
// hold at least two distinct values.
func olsSlope(xs []int, ys []float64) float64 {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += float64(xs[i])
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var num, den float64
	for i := range xs {
		dx := float64(xs[i]) - meanX
		num += dx * (ys[i] - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}
