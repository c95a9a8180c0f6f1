package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
)

var programHeader = []string{
	colProgramID, "name", "city", "state", "division", "conference", "latitude", "longitude",
	"region", "locale", "control", "religious_affiliation", "enrollment", "accept_rate_pct",
	"test_score", "wins", "losses", "us_rank",
	"top_state_1", "top_state_1_count", "top_state_2", "top_state_2_count", "top_state_3", "top_state_3_count",
	"total_players",
}

// Write stores d as CSV files in dir, in the layout Load reads.
func Write(dir string, d *Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	programs := make([][]string, 0, len(d.Programs))
	for _, p := range d.Programs {
		programs = append(programs, programRow(p))
	}
	if err := writeTable(filepath.Join(dir, ProgramsFile), programHeader, programs); err != nil {
		return err
	}

	climate := make([][]string, 0, len(d.Climate))
	for _, c := range d.Climate {
		climate = append(climate, []string{
			id(c.ProgramID), strconv.Itoa(int(c.Month)),
			optFloat(c.Temperature), optFloat(c.Precipitation), optFloat(c.CloudCover),
		})
	}
	if err := writeTable(filepath.Join(dir, ClimateFile),
		[]string{colProgramID, "month", "temperature", "precipitation", "cloud_cover"}, climate); err != nil {
		return err
	}

	rosters := make([][]string, 0, len(d.Rosters))
	for _, r := range d.Rosters {
		rosters = append(rosters, []string{
			id(r.ProgramID), strconv.Itoa(r.Year), r.PlayerName, r.Class, r.Position, r.HomeState, optFloat(r.HeightInches),
		})
	}
	if err := writeTable(filepath.Join(dir, RostersFile),
		[]string{colProgramID, "year", "player_name", "class", "position", "state", "height_in"}, rosters); err != nil {
		return err
	}

	history := make([][]string, 0, len(d.History))
	for _, h := range d.History {
		history = append(history, []string{id(h.ProgramID), h.Season, h.WinLossPct})
	}
	return writeTable(filepath.Join(dir, TeamHistoryFile), []string{colProgramID, "season", "wl_pct"}, history)
}

func programRow(p domain.ProgramRecord) []string {
	row := []string{
		id(p.ProgramID), p.Name, p.City, p.State, strconv.Itoa(p.Division), p.Conference, "", "",
		optInt(p.Region), optInt(p.Locale), optInt(p.Control), optInt(p.ReligiousAffiliation),
		optInt(p.Enrollment), optFloat(p.AcceptRatePct), float(p.TestScore),
		strconv.Itoa(p.Wins), strconv.Itoa(p.Losses), optInt(p.USRank),
	}
	if p.Geo != nil {
		row[6], row[7] = float(p.Geo.Lat), float(p.Geo.Lon)
	}
	for i := 0; i < topStateSlots; i++ {
		if i < len(p.TopStates) {
			row = append(row, p.TopStates[i].State, strconv.Itoa(p.TopStates[i].Count))
		} else {
			row = append(row, "", "")
		}
	}
	return append(row, strconv.Itoa(p.TotalPlayers))
}

func writeTable(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func float(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return float(*v)
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
