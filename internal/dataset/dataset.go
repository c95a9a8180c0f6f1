// Package dataset loads the program, climate, roster and team-history tables
// from a directory of CSV files.
package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
)

// File names inside a dataset directory.
const (
	ProgramsFile    = "programs.csv"
	ClimateFile     = "climate.csv"
	RostersFile     = "rosters.csv"
	TeamHistoryFile = "team_history.csv"
)

const colProgramID = "program_id"

// topStateSlots is the number of ranked top-recruiting-state columns.
const topStateSlots = 3

// Dataset is the full in-memory dataset. It is read-only once loaded.
type Dataset struct {
	Programs []domain.ProgramRecord
	Climate  []domain.ClimateRecord
	Rosters  []domain.RosterEntry
	History  []domain.TeamHistoryRecord

	byID map[int64]int
}

// Program looks up a program by id.
func (d *Dataset) Program(id int64) (domain.ProgramRecord, bool) {
	i, ok := d.byID[id]
	if !ok {
		return domain.ProgramRecord{}, false
	}
	return d.Programs[i], true
}

// Counts returns the row count per table, keyed by file name.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		ProgramsFile:    len(d.Programs),
		ClimateFile:     len(d.Climate),
		RostersFile:     len(d.Rosters),
		TeamHistoryFile: len(d.History),
	}
}

// New builds a Dataset from in-memory tables. Programs with a duplicate id
// after the first are dropped.
func New(programs []domain.ProgramRecord, climate []domain.ClimateRecord, rosters []domain.RosterEntry, history []domain.TeamHistoryRecord) *Dataset {
	d := &Dataset{
		Programs: make([]domain.ProgramRecord, 0, len(programs)),
		Climate:  climate,
		Rosters:  rosters,
		History:  history,
		byID:     make(map[int64]int, len(programs)),
	}
	for _, p := range programs {
		if _, dup := d.byID[p.ProgramID]; dup {
			continue
		}
		d.byID[p.ProgramID] = len(d.Programs)
		d.Programs = append(d.Programs, p)
	}
	return d
}

// Load reads all four tables from dir. The programs table is required; the
// others may be absent, in which case the related analytics report "not
// available".
func Load(dir string, logger *slog.Logger) (*Dataset, error) {
	programs, err := loadPrograms(filepath.Join(dir, ProgramsFile), logger)
	if err != nil {
		return nil, fmt.Errorf("load programs: %w", err)
	}

	climate, err := optional(loadClimate(filepath.Join(dir, ClimateFile), logger))
	if err != nil {
		return nil, fmt.Errorf("load climate: %w", err)
	}
	rosters, err := optional(loadRosters(filepath.Join(dir, RostersFile), logger))
	if err != nil {
		return nil, fmt.Errorf("load rosters: %w", err)
	}
	history, err := optional(loadHistory(filepath.Join(dir, TeamHistoryFile), logger))
	if err != nil {
		return nil, fmt.Errorf("load team history: %w", err)
	}

	d := New(programs, climate, rosters, history)
	if dropped := len(programs) - len(d.Programs); dropped > 0 {
		logger.Warn("duplicate program ids dropped", "count", dropped)
	}
	logger.Info("dataset loaded",
		"dir", dir,
		"programs", len(d.Programs),
		"climate_rows", len(d.Climate),
		"roster_rows", len(d.Rosters),
		"history_rows", len(d.History),
	)
	return d, nil
}

func loadPrograms(path string, logger *slog.Logger) ([]domain.ProgramRecord, error) {
	var out []domain.ProgramRecord
	t, err := readTable(path, []string{colProgramID, "name", "division"}, func(t *table, row []string) {
		id, ok := t.id(row)
		if !ok {
			return
		}
		p := domain.ProgramRecord{
			ProgramID:            id,
			Name:                 t.str(row, "name"),
			City:                 t.str(row, "city"),
			State:                t.str(row, "state"),
			Division:             t.intOrZero(row, "division"),
			Conference:           t.str(row, "conference"),
			Region:               t.optInt(row, "region"),
			Locale:               t.optInt(row, "locale"),
			Control:              t.optInt(row, "control"),
			ReligiousAffiliation: t.optInt(row, "religious_affiliation"),
			Enrollment:           t.optInt(row, "enrollment"),
			AcceptRatePct:        t.optFloat(row, "accept_rate_pct"),
			TestScore:            t.floatOrZero(row, "test_score"),
			Wins:                 t.intOrZero(row, "wins"),
			Losses:               t.intOrZero(row, "losses"),
			USRank:               t.optInt(row, "us_rank"),
			TotalPlayers:         t.intOrZero(row, "total_players"),
		}
		p.WinPct = domain.DeriveWinPct(p.Wins, p.Losses)

		lat, lon := t.optFloat(row, "latitude"), t.optFloat(row, "longitude")
		if lat != nil && lon != nil {
			p.Geo = &domain.Geo{Lat: *lat, Lon: *lon}
		}
		for i := 1; i <= topStateSlots; i++ {
			state := t.str(row, fmt.Sprintf("top_state_%d", i))
			if state == "" {
				continue
			}
			p.TopStates = append(p.TopStates, domain.StateCount{
				State: state,
				Count: t.intOrZero(row, fmt.Sprintf("top_state_%d_count", i)),
			})
		}
		out = append(out, p)
	})
	if err != nil {
		return nil, err
	}
	t.report(logger)
	return out, nil
}

func loadClimate(path string, logger *slog.Logger) ([]domain.ClimateRecord, error) {
	var out []domain.ClimateRecord
	t, err := readTable(path, []string{colProgramID, "month"}, func(t *table, row []string) {
		id, ok := t.id(row)
		if !ok {
			return
		}
		month := t.intOrZero(row, "month")
		if month < 1 || month > 12 {
			t.bad("month", t.str(row, "month"))
			return
		}
		out = append(out, domain.ClimateRecord{
			ProgramID:     id,
			Month:         time.Month(month),
			Temperature:   t.optFloat(row, "temperature"),
			Precipitation: t.optFloat(row, "precipitation"),
			CloudCover:    t.optFloat(row, "cloud_cover"),
		})
	})
	if err != nil {
		return nil, err
	}
	t.report(logger)
	return out, nil
}

func loadRosters(path string, logger *slog.Logger) ([]domain.RosterEntry, error) {
	var out []domain.RosterEntry
	t, err := readTable(path, []string{colProgramID, "year", "player_name"}, func(t *table, row []string) {
		id, ok := t.id(row)
		if !ok {
			return
		}
		year := t.intOrZero(row, "year")
		if year <= 0 {
			t.bad("year", t.str(row, "year"))
			return
		}
		out = append(out, domain.RosterEntry{
			ProgramID:    id,
			Year:         year,
			PlayerName:   t.str(row, "player_name"),
			Class:        t.str(row, "class"),
			Position:     t.str(row, "position"),
			HomeState:    t.str(row, "state"),
			HeightInches: t.optFloat(row, "height_in"),
		})
	})
	if err != nil {
		return nil, err
	}
	t.report(logger)
	return out, nil
}

// loadHistory keeps season and win/loss text raw; the analyzer parses them
// and skips rows it cannot read.
func loadHistory(path string, logger *slog.Logger) ([]domain.TeamHistoryRecord, error) {
	var out []domain.TeamHistoryRecord
	t, err := readTable(path, []string{colProgramID, "season", "wl_pct"}, func(t *table, row []string) {
		id, ok := t.id(row)
		if !ok {
			return
		}
		out = append(out, domain.TeamHistoryRecord{
			ProgramID:  id,
			Season:     t.str(row, "season"),
			WinLossPct: t.str(row, "wl_pct"),
		})
	})
	if err != nil {
		return nil, err
	}
	t.report(logger)
	return out, nil
}

// optional treats a missing file as an empty table.
func optional[T any](rows []T, err error) ([]T, error) {
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return rows, err
}
