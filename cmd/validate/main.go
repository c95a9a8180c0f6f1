// Command validate performs integrity checks on a dataset directory: value
// ranges, referential integrity between tables, parseability of published
// text columns, and a smoke run of every engine over the loaded data.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data -season-end-year 2025
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/couchcryptid/baseball-program-finder/internal/dataset"
	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/couchcryptid/baseball-program-finder/internal/filter"
	"github.com/couchcryptid/baseball-program-finder/internal/fit"
	"github.com/couchcryptid/baseball-program-finder/internal/roster"
	"github.com/jonboulle/clockwork"
)

// maxErrorsShown caps the detail printed per failing phase.
const maxErrorsShown = 25

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "", "dataset directory")
	endYear := flag.Int("season-end-year", 0, "end year of the most recent season (default: latest in team history)")
	verbose := flag.Bool("v", false, "log dataset loading details")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataDir, *endYear, *verbose); code != 0 {
		os.Exit(code)
	}
}

func run(dir string, endYear int, verbose bool) int {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	fmt.Println("=== Program Dataset Integrity Validation ===")
	fmt.Println()

	d, err := dataset.Load(dir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}
	if endYear == 0 {
		endYear = latestSeason(d.History)
	}

	phases := []*phase{
		validatePrograms(d.Programs),
		validateReferences(d),
		validateHistory(d.History),
		validateRosters(d.Rosters),
		validateEngines(d, endYear),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d programs, %d climate, %d roster, %d history (season end year %d)\n",
		len(d.Programs), len(d.Climate), len(d.Rosters), len(d.History), endYear)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxErrorsShown {
				fmt.Printf("  ... %d more\n", len(p.errors)-maxErrorsShown)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Program table ──

func validatePrograms(programs []domain.ProgramRecord) *phase {
	p := &phase{name: "Program value ranges"}
	if len(programs) == 0 {
		p.errorf("no programs loaded")
	}
	for _, r := range programs {
		if r.Name == "" {
			p.errorf("program %d: empty name", r.ProgramID)
		}
		if r.Division < 1 || r.Division > 3 {
			p.errorf("program %d: division %d outside 1..3", r.ProgramID, r.Division)
		}
		if r.WinPct < 0 || r.WinPct > 100 {
			p.errorf("program %d: win pct %.1f outside [0,100]", r.ProgramID, r.WinPct)
		}
		if r.AcceptRatePct != nil && (*r.AcceptRatePct < 0 || *r.AcceptRatePct > 100) {
			p.errorf("program %d: accept rate %.1f outside [0,100]", r.ProgramID, *r.AcceptRatePct)
		}
		if r.TestScore != 0 && (r.TestScore < 400 || r.TestScore > 1600) {
			p.errorf("program %d: test score %.0f outside [400,1600]", r.ProgramID, r.TestScore)
		}
		if g := r.Geo; g != nil && (math.Abs(g.Lat) > 90 || math.Abs(g.Lon) > 180) {
			p.errorf("program %d: coordinates (%.4f, %.4f) out of range", r.ProgramID, g.Lat, g.Lon)
		}
		top := 0
		for _, sc := range r.TopStates {
			top += sc.Count
		}
		if top > r.TotalPlayers {
			p.errorf("program %d: top-state counts %d exceed total players %d", r.ProgramID, top, r.TotalPlayers)
		}
	}
	return p
}

// ── Cross-table references ──

type climateKey struct {
	id    int64
	month int
}

func validateReferences(d *dataset.Dataset) *phase {
	p := &phase{name: "Referential integrity"}
	known := func(id int64) bool {
		_, ok := d.Program(id)
		return ok
	}

	seen := make(map[climateKey]bool, len(d.Climate))
	for _, c := range d.Climate {
		if !known(c.ProgramID) {
			p.errorf("climate: unknown program %d", c.ProgramID)
		}
		k := climateKey{id: c.ProgramID, month: int(c.Month)}
		if seen[k] {
			p.errorf("climate: duplicate row for program %d month %d", c.ProgramID, c.Month)
		}
		seen[k] = true
	}

	orphans := make(map[int64]bool)
	for _, r := range d.Rosters {
		if !known(r.ProgramID) && !orphans[r.ProgramID] {
			orphans[r.ProgramID] = true
			p.errorf("rosters: unknown program %d", r.ProgramID)
		}
	}
	for _, h := range d.History {
		if !known(h.ProgramID) && !orphans[h.ProgramID] {
			orphans[h.ProgramID] = true
			p.errorf("team history: unknown program %d", h.ProgramID)
		}
	}
	return p
}

// ── Team history ──

func validateHistory(history []domain.TeamHistoryRecord) *phase {
	p := &phase{name: "Team history parseability"}
	type seasonKey struct {
		id   int64
		year int
	}
	seen := make(map[seasonKey]bool, len(history))
	for _, h := range history {
		year, err := domain.SeasonEndYear(h.Season)
		if err != nil {
			p.errorf("program %d: season %q: %v", h.ProgramID, h.Season, err)
			continue
		}
		if _, err := domain.ParseWinLossFraction(h.WinLossPct); err != nil {
			p.errorf("program %d season %s: win/loss %q: %v", h.ProgramID, h.Season, h.WinLossPct, err)
		}
		k := seasonKey{id: h.ProgramID, year: year}
		if seen[k] {
			p.errorf("program %d: duplicate season ending %d", h.ProgramID, year)
		}
		seen[k] = true
	}
	return p
}

func latestSeason(history []domain.TeamHistoryRecord) int {
	latest := 0
	for _, h := range history {
		if y, err := domain.SeasonEndYear(h.Season); err == nil && y > latest {
			latest = y
		}
	}
	if latest == 0 {
		return domain.Clock().Now().Year()
	}
	return latest
}

// ── Rosters ──

func validateRosters(rosters []domain.RosterEntry) *phase {
	p := &phase{name: "Roster sanity"}
	unknownClass := 0
	for _, r := range rosters {
		if r.PlayerName == "" {
			p.errorf("program %d year %d: empty player name", r.ProgramID, r.Year)
		}
		if domain.ParseClassYear(r.Class) == domain.ClassUnknown {
			unknownClass++
		}
		if h := r.HeightInches; h != nil && (*h < 55 || *h > 90) {
			p.errorf("program %d year %d: %s height %.0f in implausible", r.ProgramID, r.Year, r.PlayerName, *h)
		}
	}
	// Graduate students are legitimately unclassed, but not most of a roster.
	if len(rosters) > 0 && unknownClass*2 > len(rosters) {
		p.errorf("%d of %d roster rows have an unrecognised class token", unknownClass, len(rosters))
	}
	return p
}

// ── Engine smoke run ──

func validateEngines(d *dataset.Dataset, endYear int) *phase {
	p := &phase{name: "Engine smoke run"}

	res := filter.New(d.Climate).Apply(d.Programs, filter.Criteria{})
	if res.Degraded {
		p.errorf("filter: zero criteria degraded: %v", res.Err)
	}
	if len(res.Programs) != len(d.Programs) {
		p.errorf("filter: zero criteria returned %d of %d programs", len(res.Programs), len(d.Programs))
	}

	analyzer, err := roster.New(d.Rosters, d.History, roster.Options{CurrentSeasonEndYear: endYear})
	if err != nil {
		p.errorf("roster: %v", err)
		return p
	}

	classifier := fit.New(clockwork.NewFakeClock())
	profile := domain.UserProfile{Academic: domain.AcademicInfo{domain.MetricSATTotal: 1200}}
	for _, prog := range d.Programs {
		m := analyzer.Metrics(prog)
		if r := m.FreshmanRetention; r != nil && (*r < 0 || *r > 100) {
			p.errorf("program %d: freshman retention %.1f outside [0,100]", prog.ProgramID, *r)
		}
		if m.InStatePct < 0 || m.InStatePct > 100 {
			p.errorf("program %d: in-state pct %.1f outside [0,100]", prog.ProgramID, m.InStatePct)
		}
		if _, err := classifier.Classify(profile, prog); err != nil {
			p.errorf("program %d: classify: %v", prog.ProgramID, err)
		}
	}
	return p
}
