package domain

import (
	"math"
	"time"
)

// NonAffiliated is the IPEDS religious-affiliation code for institutions with
// no affiliation.
const NonAffiliated = -2

// Control codes from IPEDS.
const (
	ControlPublic           = 1
	ControlPrivateNonprofit = 2
	ControlPrivateForProfit = 3
)

// StateCount is one ranked entry of a program's top recruiting states.
type StateCount struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

// ProgramRecord is one school/program row of the dataset.
type ProgramRecord struct {
	ProgramID  int64  `json:"program_id"`
	Name       string `json:"name"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Division   int    `json:"division"`
	Conference string `json:"conference,omitempty"`
	Geo        *Geo   `json:"geo,omitempty"`

	Region               *int `json:"region,omitempty"`
	Locale               *int `json:"locale,omitempty"`
	Control              *int `json:"control,omitempty"`
	ReligiousAffiliation *int `json:"religious_affiliation,omitempty"`

	Enrollment    *int     `json:"enrollment,omitempty"`
	AcceptRatePct *float64 `json:"accept_rate_pct,omitempty"`
	TestScore     float64  `json:"test_score"` // 0 = unknown

	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	WinPct float64 `json:"win_pct"`
	USRank *int    `json:"us_rank,omitempty"`

	// Pre-aggregated roster facts.
	TopStates    []StateCount `json:"top_states,omitempty"`
	TotalPlayers int          `json:"total_players"`
}

// DeriveWinPct returns wins/(wins+losses) as a percentage rounded to one
// decimal, or 0 when no games were recorded.
func DeriveWinPct(wins, losses int) float64 {
	games := wins + losses
	if games <= 0 || wins < 0 || losses < 0 {
		return 0
	}
	return Round1(float64(wins) / float64(games) * 100)
}

// AffiliationOrDefault returns the religious affiliation code, treating a
// missing code as NonAffiliated.
func (p ProgramRecord) AffiliationOrDefault() int {
	if p.ReligiousAffiliation == nil {
		return NonAffiliated
	}
	return *p.ReligiousAffiliation
}

// EnrollmentOrZero returns undergraduate enrollment with missing treated as 0.
func (p ProgramRecord) EnrollmentOrZero() int {
	if p.Enrollment == nil {
		return 0
	}
	return *p.Enrollment
}

// ClimateRecord holds monthly climate normals for one program.
type ClimateRecord struct {
	ProgramID     int64      `json:"program_id"`
	Month         time.Month `json:"month"`
	Temperature   *float64   `json:"temperature,omitempty"`   // mean, deg F
	Precipitation *float64   `json:"precipitation,omitempty"` // mean, in/day
	CloudCover    *float64   `json:"cloud_cover,omitempty"`   // mean, percent
}

// RosterEntry is one player on one season's roster.
type RosterEntry struct {
	ProgramID    int64    `json:"program_id"`
	Year         int      `json:"year"`
	PlayerName   string   `json:"player_name"`
	Class        string   `json:"class"`
	Position     string   `json:"position"`
	HomeState    string   `json:"home_state,omitempty"`
	HeightInches *float64 `json:"height_in,omitempty"`
}

// TeamHistoryRecord is one season of a program's record as published.
type TeamHistoryRecord struct {
	ProgramID  int64  `json:"program_id"`
	Season     string `json:"season"`
	WinLossPct string `json:"wl_pct"`
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Ptr returns a pointer to v. Handy for optional columns in literals.
func Ptr[T any](v T) *T {
	return &v
}
