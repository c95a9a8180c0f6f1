package roster_test

import (
	"fmt"
	"testing"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/couchcryptid/baseball-program-finder/internal/roster"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const currentYear = 2025

func history(programID int64, pcts map[string]string) []domain.TeamHistoryRecord {
	out := make([]domain.TeamHistoryRecord, 0, len(pcts))
	for season, pct := range pcts {
		out = append(out, domain.TeamHistoryRecord{ProgramID: programID, Season: season, WinLossPct: pct})
	}
	return out
}

func newAnalyzer(t *testing.T, rosters []domain.RosterEntry, hist []domain.TeamHistoryRecord) *roster.Analyzer {
	t.Helper()
	a, err := roster.New(rosters, hist, roster.Options{CurrentSeasonEndYear: currentYear})
	require.NoError(t, err)
	return a
}

func TestNew_Options(t *testing.T) {
	a, err := roster.New(nil, nil, roster.Options{CurrentSeasonEndYear: currentYear})
	require.NoError(t, err)
	assert.Equal(t, roster.DefaultWindowYears, a.Options().WindowYears)

	_, err = roster.New(nil, nil, roster.Options{})
	require.ErrorIs(t, err, roster.ErrInvalidOptions)

	_, err = roster.New(nil, nil, roster.Options{CurrentSeasonEndYear: currentYear, WindowYears: 1})
	require.ErrorIs(t, err, roster.ErrInvalidOptions)

	_, err = roster.New(nil, nil, roster.Options{CurrentSeasonEndYear: currentYear, WindowYears: -3})
	require.ErrorIs(t, err, roster.ErrInvalidOptions)
}

func TestTrajectory_SignLaw(t *testing.T) {
	tests := []struct {
		name  string
		pcts  map[string]string
		trend roster.Trend
		glyph string
		color string
	}{
		{
			name:  "improving",
			pcts:  map[string]string{"2020-21": ".400", "2021-22": ".450", "2022-23": ".500", "2023-24": ".550", "2024-25": ".600"},
			trend: roster.Improving, glyph: "↑", color: "#28a745",
		},
		{
			name:  "declining",
			pcts:  map[string]string{"2020-21": ".700", "2021-22": ".650", "2022-23": ".600", "2023-24": ".550", "2024-25": ".500"},
			trend: roster.Declining, glyph: "↓", color: "#dc3545",
		},
		{
			name:  "constant",
			pcts:  map[string]string{"2021-22": ".500", "2022-23": ".500", "2023-24": ".500", "2024-25": ".500"},
			trend: roster.Stable, glyph: "→", color: "#888888",
		},
		{
			name:  "small drift is stable",
			pcts:  map[string]string{"2022-23": ".500", "2023-24": ".505", "2024-25": ".510"},
			trend: roster.Stable, glyph: "→", color: "#888888",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := newAnalyzer(t, nil, history(7, tc.pcts))
			got, ok := a.Trajectory(7)
			require.True(t, ok)
			assert.Equal(t, tc.trend, got.Trend)
			assert.Equal(t, tc.glyph, got.Glyph)
			assert.Equal(t, tc.color, got.Color)
		})
	}
}

func TestTrajectory_Series(t *testing.T) {
	hist := history(7, map[string]string{
		"2024-25": ".600",
		"2022-23": ".500",
		"2023-24": ".550",
		"2013-14": ".900", // outside the ten-season window
		"2021-22": "n/a",  // malformed
		"garbage": ".300",
	})
	a := newAnalyzer(t, nil, hist)

	got, ok := a.Trajectory(7)
	require.True(t, ok)
	assert.Equal(t, []int{2023, 2024, 2025}, got.Years)
	require.Len(t, got.WinPcts, 3)
	assert.InDelta(t, 50.0, got.WinPcts[0], 1e-9)
	assert.InDelta(t, 60.0, got.WinPcts[2], 1e-9)
	assert.InDelta(t, 60.0, got.CurrentPct, 1e-9)
	assert.InDelta(t, 0.05, got.Slope, 1e-9)
}

func TestTrajectory_CenturyRollover(t *testing.T) {
	hist := history(3, map[string]string{"1998-99": ".400", "1999-00": ".500"})
	a, err := roster.New(nil, hist, roster.Options{CurrentSeasonEndYear: 2000, WindowYears: 5})
	require.NoError(t, err)

	got, ok := a.Trajectory(3)
	require.True(t, ok)
	assert.Equal(t, []int{1999, 2000}, got.Years)
	assert.Equal(t, roster.Improving, got.Trend)
}

func TestTrajectory_NotAvailable(t *testing.T) {
	a := newAnalyzer(t, nil, history(7, map[string]string{"2024-25": ".600", "2023-24": "bad"}))

	_, ok := a.Trajectory(7)
	assert.False(t, ok, "single valid season")

	_, ok = a.Trajectory(99)
	assert.False(t, ok, "unknown program")
}

func TestTrajectory_DuplicateSeasonKeepsLast(t *testing.T) {
	hist := []domain.TeamHistoryRecord{
		{ProgramID: 1, Season: "2023-24", WinLossPct: ".500"},
		{ProgramID: 1, Season: "2024-25", WinLossPct: ".100"},
		{ProgramID: 1, Season: "2024-25", WinLossPct: ".900"},
	}
	a := newAnalyzer(t, nil, hist)

	got, ok := a.Trajectory(1)
	require.True(t, ok)
	assert.Equal(t, []int{2024, 2025}, got.Years)
	assert.InDelta(t, 90.0, got.CurrentPct, 1e-9)
}

func player(programID int64, year int, name, class, pos, state string) domain.RosterEntry {
	return domain.RosterEntry{ProgramID: programID, Year: year, PlayerName: name, Class: class, Position: pos, HomeState: state}
}

func TestFreshmanRetention(t *testing.T) {
	rosters := []domain.RosterEntry{
		player(1, 2023, "Ann", "Fr.", "RHP", "MD"),
		player(1, 2023, "Ben", "Fr.", "C", "MD"),
		player(1, 2023, "Cal", "Jr.", "SS", "VA"),
		player(1, 2024, "Ann", "So.", "RHP", "MD"),
		player(1, 2024, "Dan", "Fr.", "OF", "PA"),
		player(1, 2024, "Eli", "Fr.", "OF", "PA"),
		player(1, 2024, "Fay", "Fr.", "2B", "PA"),
		player(1, 2024, "Gus", "Fr.", "1B", "PA"),
		player(1, 2025, "Dan", "So.", "OF", "PA"),
		player(1, 2025, "Eli", "So.", "OF", "PA"),
		player(1, 2025, "Fay", "So.", "2B", "PA"),
		player(1, 2025, "Gus", "So.", "1B", "PA"),
	}
	a := newAnalyzer(t, rosters, nil)

	// 2023->2024: 1 of 2; 2024->2025: 4 of 4.
	got, ok := a.FreshmanRetention(1)
	require.True(t, ok)
	assert.InDelta(t, 75.0, got, 1e-9)
}

func TestFreshmanRetention_Bounds(t *testing.T) {
	for seed := 0; seed < 5; seed++ {
		var rosters []domain.RosterEntry
		for y := 2021; y <= 2025; y++ {
			for i := 0; i < 6; i++ {
				if (i+y+seed)%3 == 0 {
					continue
				}
				class := "So."
				if (i+seed)%2 == 0 {
					class = "Fr."
				}
				rosters = append(rosters, player(1, y, fmt.Sprintf("p%d", i), class, "P", "TX"))
			}
		}
		a := newAnalyzer(t, rosters, nil)
		if got, ok := a.FreshmanRetention(1); ok {
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		}
	}
}

func TestFreshmanRetention_NotAvailable(t *testing.T) {
	rosters := []domain.RosterEntry{
		player(1, 2024, "Ann", "Sr.", "RHP", "MD"),
		player(1, 2025, "Ben", "Jr.", "C", "MD"),
		player(2, 2025, "Cal", "Fr.", "SS", "VA"),
	}
	a := newAnalyzer(t, rosters, nil)

	_, ok := a.FreshmanRetention(1)
	assert.False(t, ok, "no freshmen")
	_, ok = a.FreshmanRetention(2)
	assert.False(t, ok, "single roster year")
	_, ok = a.FreshmanRetention(3)
	assert.False(t, ok, "no roster")
}

func TestInStateRecruitingPct(t *testing.T) {
	a := newAnalyzer(t, nil, nil)

	p := domain.ProgramRecord{
		State:        "TX",
		TotalPlayers: 40,
		TopStates:    []domain.StateCount{{State: "TX", Count: 25}, {State: "OK", Count: 5}, {State: "LA", Count: 3}},
	}
	assert.InDelta(t, 62.5, a.InStateRecruitingPct(p), 1e-9)

	p.State = "NM"
	assert.Zero(t, a.InStateRecruitingPct(p))

	p.State = ""
	assert.Zero(t, a.InStateRecruitingPct(p))

	p.State, p.TotalPlayers = "TX", 0
	assert.Zero(t, a.InStateRecruitingPct(p))
}

func TestGroupPosition(t *testing.T) {
	tests := []struct {
		raw   string
		group roster.PositionGroup
		ok    bool
	}{
		{"RHP", roster.Pitcher, true},
		{" lhp ", roster.Pitcher, true},
		{"P/OF", roster.Pitcher, true},
		{"C", roster.Catcher, true},
		{"C/1B", roster.Infielder, true},
		{"2B", roster.Infielder, true},
		{"INF", roster.Infielder, true},
		{"ss", roster.Infielder, true},
		{"IF/OF", roster.Outfielder, true},
		{"OF", roster.Outfielder, true},
		{"CF", roster.Outfielder, true},
		{"DH", "", false},
		{"UTIL", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			group, ok := roster.GroupPosition(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.group, group)
		})
	}
}

func TestPositionDepth(t *testing.T) {
	six2, six0 := 74.0, 72.0
	rosters := []domain.RosterEntry{
		player(1, 2024, "Old", "Sr.", "RHP", "MD"),
		{ProgramID: 1, Year: 2025, PlayerName: "A", Class: "Fr.", Position: "RHP", HeightInches: &six2},
		{ProgramID: 1, Year: 2025, PlayerName: "B", Class: "So.", Position: "2B", HeightInches: &six0},
		player(1, 2025, "C", "Jr.", "OF", "VA"),
		player(1, 2025, "D", "Gr.", "DH", "VA"),
	}
	a := newAnalyzer(t, rosters, nil)

	got, ok := a.PositionDepth(1)
	require.True(t, ok)

	want := roster.Depth{
		Year:        2025,
		Pitchers:    1,
		Infielders:  1,
		Outfielders: 1,
		Classes: roster.ClassDistribution{
			Freshman:  roster.ClassShare{Count: 1, Pct: 25},
			Sophomore: roster.ClassShare{Count: 1, Pct: 25},
			Junior:    roster.ClassShare{Count: 1, Pct: 25},
			Total:     4,
		},
		AvgPitcherHeight: 74,
		AvgOtherHeight:   72,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected depth (-want +got):\n%s", diff)
	}

	_, ok = a.PositionDepth(2)
	assert.False(t, ok)
}

func TestStateDistribution(t *testing.T) {
	var rosters []domain.RosterEntry
	states := []string{"TX", "TX", "TX", "OK", "OK", "LA", "AR", "NM", "CO", "KS", "MO", "NE", "IA", ""}
	for i, s := range states {
		rosters = append(rosters, player(1, 2025, fmt.Sprintf("p%d", i), "Jr.", "P", s))
	}
	rosters = append(rosters,
		player(1, 2022, "x", "Fr.", "P", "CA"),
		player(1, 2021, "y", "Fr.", "P", "WA"),
	)
	a := newAnalyzer(t, rosters, nil)

	got, ok := a.StateDistribution(1)
	require.True(t, ok)
	assert.Equal(t, 2025, got.Year)
	assert.Equal(t, 2022, got.FromYear)

	require.Len(t, got.Recent, 9)
	assert.Equal(t, domain.StateCount{State: "TX", Count: 3}, got.Recent[0])
	assert.Equal(t, domain.StateCount{State: "OK", Count: 2}, got.Recent[1])
	assert.Equal(t, domain.StateCount{State: "AR", Count: 1}, got.Recent[2])
	assert.Equal(t, domain.StateCount{State: "Other", Count: 2}, got.Recent[8])

	total := 0
	for _, s := range got.MultiYear {
		total += s.Count
		assert.NotEqual(t, "WA", s.State)
	}
	assert.Equal(t, 14, total, "13 states in 2025 plus CA in 2022")

	_, ok = a.StateDistribution(9)
	assert.False(t, ok)
}

func TestMetrics(t *testing.T) {
	rosters := []domain.RosterEntry{player(1, 2025, "A", "Fr.", "RHP", "TX")}
	hist := history(1, map[string]string{"2023-24": ".500", "2024-25": ".600"})
	a := newAnalyzer(t, rosters, hist)

	m := a.Metrics(domain.ProgramRecord{ProgramID: 1, Name: "Lone Star", State: "TX", TotalPlayers: 10,
		TopStates: []domain.StateCount{{State: "TX", Count: 4}}})
	assert.Equal(t, int64(1), m.ProgramID)
	require.NotNil(t, m.Trajectory)
	assert.Equal(t, roster.Improving, m.Trajectory.Trend)
	assert.Nil(t, m.FreshmanRetention)
	require.NotNil(t, m.Depth)
	assert.Equal(t, 1, m.Depth.Pitchers)
	require.NotNil(t, m.States)
	assert.InDelta(t, 40.0, m.InStatePct, 1e-9)

	empty := a.Metrics(domain.ProgramRecord{ProgramID: 2})
	assert.Nil(t, empty.Trajectory)
	assert.Nil(t, empty.Depth)
	assert.Nil(t, empty.States)
	assert.Zero(t, empty.InStatePct)
}
