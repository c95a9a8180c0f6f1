// Command genmock generates a deterministic synthetic dataset directory for
// local development and demos. Output is laid out exactly as dataset.Load
// expects it, so the finder service and the shortlist CLI can run against it.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -programs 120 -seed 7
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"github.com/couchcryptid/baseball-program-finder/internal/dataset"
	"github.com/couchcryptid/baseball-program-finder/internal/domain"
)

// homeState seeds a program's location and climate.
type homeState struct {
	code     string
	lat, lon float64
	region   int
	// January and July mean temperatures, deg F.
	janTemp, julTemp float64
}

var states = []homeState{
	{code: "MA", lat: 42.36, lon: -71.06, region: 1, janTemp: 29, julTemp: 74},
	{code: "NY", lat: 42.65, lon: -73.75, region: 2, janTemp: 23, julTemp: 72},
	{code: "PA", lat: 40.27, lon: -76.88, region: 2, janTemp: 30, julTemp: 76},
	{code: "MD", lat: 39.29, lon: -76.61, region: 5, janTemp: 33, julTemp: 79},
	{code: "OH", lat: 39.96, lon: -83.00, region: 3, janTemp: 28, julTemp: 75},
	{code: "IL", lat: 41.88, lon: -87.63, region: 3, janTemp: 24, julTemp: 75},
	{code: "GA", lat: 33.75, lon: -84.39, region: 5, janTemp: 44, julTemp: 81},
	{code: "FL", lat: 28.54, lon: -81.38, region: 5, janTemp: 61, julTemp: 83},
	{code: "TX", lat: 30.27, lon: -97.74, region: 6, janTemp: 51, julTemp: 85},
	{code: "AZ", lat: 33.45, lon: -112.07, region: 6, janTemp: 56, julTemp: 95},
	{code: "CA", lat: 34.05, lon: -118.24, region: 8, janTemp: 58, julTemp: 74},
	{code: "WA", lat: 47.61, lon: -122.33, region: 8, janTemp: 42, julTemp: 66},
}

var conferences = map[int][]string{
	1: {"Atlantic Coast", "Southeastern", "Big Ten", "Big 12", "Sun Belt"},
	2: {"Gulf South", "Peach Belt", "Lone Star", "Great Lakes Valley"},
	3: {"NESCAC", "Centennial", "Liberty League", "Capital", "UAA"},
}

var (
	namePrefixes = []string{"North", "South", "East", "West", "Central", "Lake", "River", "Mount", "Harbor", "Valley"}
	nameKinds    = []string{"State University", "College", "University", "Tech", "Institute"}
	firstNames   = []string{"Alex", "Ben", "Carlos", "Drew", "Eli", "Finn", "Gabe", "Hank", "Ivan", "Jake", "Kai", "Luis", "Max", "Nate", "Owen", "Pete"}
	lastNames    = []string{"Adams", "Brooks", "Cruz", "Diaz", "Evans", "Fox", "Garcia", "Hayes", "Irwin", "Jones", "King", "Lopez", "Moore", "Nash", "Ortiz", "Park"}
	positions    = []string{"RHP", "LHP", "RHP", "LHP", "C", "1B", "2B", "3B", "SS", "INF", "OF", "LF", "CF", "RF", "UTL", "DH"}
	classes      = []string{"Fr.", "So.", "Jr.", "Sr."}
)

const (
	rosterSize     = 34
	rosterSeasons  = 4
	historySeasons = 12
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output dataset directory")
	n := flag.Int("programs", 100, "number of programs to generate")
	seed := flag.Uint64("seed", 1, "random seed; the same seed yields the same dataset")
	endYear := flag.Int("season-end-year", 2025, "end year of the most recent season")
	flag.Parse()

	if *out == "" || *n <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out, -programs > 0")
	}

	d := generate(rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)), *n, *endYear)
	if err := dataset.Write(*out, d); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	fmt.Printf("wrote %d programs, %d climate rows, %d roster rows, %d history rows to %s\n",
		len(d.Programs), len(d.Climate), len(d.Rosters), len(d.History), *out)
	return nil
}

func generate(rng *rand.Rand, n, endYear int) *dataset.Dataset {
	var (
		programs []domain.ProgramRecord
		climate  []domain.ClimateRecord
		rosters  []domain.RosterEntry
		history  []domain.TeamHistoryRecord
	)
	for i := range n {
		id := int64(100000 + i*37)
		st := states[rng.IntN(len(states))]

		roster := genRoster(rng, id, st, endYear)
		rosters = append(rosters, roster...)
		history = append(history, genHistory(rng, id, endYear)...)
		climate = append(climate, genClimate(rng, id, st)...)
		programs = append(programs, genProgram(rng, id, st, roster, endYear))
	}
	return dataset.New(programs, climate, rosters, history)
}

func genProgram(rng *rand.Rand, id int64, st homeState, roster []domain.RosterEntry, endYear int) domain.ProgramRecord {
	division := 1 + rng.IntN(3)
	wins := 10 + rng.IntN(40)
	losses := 10 + rng.IntN(35)

	p := domain.ProgramRecord{
		ProgramID:  id,
		Name:       fmt.Sprintf("%s %s %s", namePrefixes[rng.IntN(len(namePrefixes))], st.code, nameKinds[rng.IntN(len(nameKinds))]),
		City:       "Springfield",
		State:      st.code,
		Division:   division,
		Conference: conferences[division][rng.IntN(len(conferences[division]))],
		Geo: &domain.Geo{
			Lat: round(st.lat+rng.Float64()*4-2, 4),
			Lon: round(st.lon+rng.Float64()*4-2, 4),
		},
		Region:  domain.Ptr(st.region),
		Locale:  domain.Ptr([]int{11, 12, 13, 21, 22, 31, 32, 41}[rng.IntN(8)]),
		Control: domain.Ptr(1 + rng.IntN(2)),
		Wins:    wins,
		Losses:  losses,
		WinPct:  domain.DeriveWinPct(wins, losses),
	}
	if *p.Control == domain.ControlPrivateNonprofit && rng.IntN(3) == 0 {
		p.ReligiousAffiliation = domain.Ptr([]int{30, 71, 66, 54}[rng.IntN(4)])
	} else {
		p.ReligiousAffiliation = domain.Ptr(domain.NonAffiliated)
	}
	// Leave some academic columns empty, as in the published data.
	if rng.IntN(10) > 0 {
		p.Enrollment = domain.Ptr(500 + rng.IntN(40000))
	}
	if rng.IntN(10) > 0 {
		p.AcceptRatePct = domain.Ptr(round(8+rng.Float64()*90, 1))
	}
	if rng.IntN(5) > 0 {
		p.TestScore = float64(950 + 10*rng.IntN(55))
	}
	if division == 1 && rng.IntN(4) == 0 {
		p.USRank = domain.Ptr(1 + rng.IntN(50))
	}

	counts := make(map[string]int)
	total := 0
	for _, r := range roster {
		if r.Year != endYear {
			continue
		}
		counts[r.HomeState]++
		total++
	}
	p.TotalPlayers = total
	p.TopStates = topStates(counts, 3)
	return p
}

func genRoster(rng *rand.Rand, id int64, st homeState, endYear int) []domain.RosterEntry {
	type player struct {
		name, state, position string
		height                *float64
		firstYear             int
	}
	var pool []player
	signed := 0
	newPlayer := func(year int) player {
		state := st.code
		if rng.IntN(10) >= 6 {
			state = states[rng.IntN(len(states))].code
		}
		signed++
		pl := player{
			name:      fmt.Sprintf("%s %s %d", firstNames[rng.IntN(len(firstNames))], lastNames[rng.IntN(len(lastNames))], signed),
			state:     state,
			position:  positions[rng.IntN(len(positions))],
			firstYear: year,
		}
		if rng.IntN(8) > 0 {
			pl.height = domain.Ptr(float64(68 + rng.IntN(10)))
		}
		return pl
	}

	var out []domain.RosterEntry
	first := endYear - rosterSeasons + 1
	for year := first; year <= endYear; year++ {
		var next []player
		for _, pl := range pool {
			// Seniors graduate; about one in five others leave.
			if year-pl.firstYear < 4 && rng.IntN(5) > 0 {
				next = append(next, pl)
			}
		}
		for len(next) < rosterSize {
			next = append(next, newPlayer(year))
		}
		pool = next
		for _, pl := range pool {
			class := classes[min(year-pl.firstYear, 3)]
			if year == first {
				class = classes[rng.IntN(len(classes))]
			}
			out = append(out, domain.RosterEntry{
				ProgramID:    id,
				Year:         year,
				PlayerName:   pl.name,
				Class:        class,
				Position:     pl.position,
				HomeState:    pl.state,
				HeightInches: pl.height,
			})
		}
	}
	return out
}

func genHistory(rng *rand.Rand, id int64, endYear int) []domain.TeamHistoryRecord {
	out := make([]domain.TeamHistoryRecord, 0, historySeasons)
	base := 0.35 + rng.Float64()*0.3
	drift := (rng.Float64() - 0.5) * 0.04
	for i := historySeasons - 1; i >= 0; i-- {
		end := endYear - i
		pct := math.Min(math.Max(base+drift*float64(historySeasons-i)+(rng.Float64()-0.5)*0.1, 0), 1)
		out = append(out, domain.TeamHistoryRecord{
			ProgramID:  id,
			Season:     fmt.Sprintf("%d-%02d", end-1, end%100),
			WinLossPct: formatFraction(pct),
		})
	}
	return out
}

func genClimate(rng *rand.Rand, id int64, st homeState) []domain.ClimateRecord {
	out := make([]domain.ClimateRecord, 0, 12)
	for m := time.January; m <= time.December; m++ {
		// Cosine between the January low and the July high.
		phase := math.Cos(float64(m-time.July) * math.Pi / 6)
		temp := (st.janTemp+st.julTemp)/2 + (st.julTemp-st.janTemp)/2*phase
		out = append(out, domain.ClimateRecord{
			ProgramID:     id,
			Month:         m,
			Temperature:   domain.Ptr(round(temp+rng.Float64()*4-2, 1)),
			Precipitation: domain.Ptr(round(0.05+rng.Float64()*0.2, 2)),
			CloudCover:    domain.Ptr(round(30+rng.Float64()*45, 1)),
		})
	}
	return out
}

// formatFraction renders a win fraction the way published records do: ".596", "1.000".
func formatFraction(v float64) string {
	thousandths := int(math.Round(v * 1000))
	if thousandths >= 1000 {
		return "1.000"
	}
	return fmt.Sprintf(".%03d", thousandths)
}

func topStates(counts map[string]int, n int) []domain.StateCount {
	var out []domain.StateCount
	for len(out) < n {
		best, bestCount := "", 0
		for st, c := range counts {
			if c > bestCount || (c == bestCount && c > 0 && st < best) {
				best, bestCount = st, c
			}
		}
		if bestCount == 0 {
			break
		}
		out = append(out, domain.StateCount{State: best, Count: bestCount})
		delete(counts, best)
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
