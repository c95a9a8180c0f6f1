package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
)

// table reads one header-addressed CSV file and tallies malformed cells so
// they can be reported once per file.
type table struct {
	name      string
	cols      map[string]int
	malformed int
	firstBad  string
}

// readTable opens path and calls fn for every data row. Columns listed in
// required must be present in the header.
func readTable(path string, required []string, fn func(t *table, row []string)) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}

	t := &table{name: path, cols: make(map[string]int, len(header))}
	for i, h := range header {
		t.cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range required {
		if _, ok := t.cols[col]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, col)
		}
	}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		fn(t, row)
	}
	return t, nil
}

// report logs the malformed-cell tally, if any.
func (t *table) report(logger *slog.Logger) {
	if t.malformed == 0 {
		return
	}
	logger.Warn("malformed cells treated as missing",
		"file", t.name,
		"count", t.malformed,
		"first", t.firstBad,
	)
}

func (t *table) bad(col, v string) {
	if t.malformed == 0 {
		t.firstBad = fmt.Sprintf("%s=%q", col, v)
	}
	t.malformed++
}

// str returns the trimmed cell, or "" when the column or cell is absent.
func (t *table) str(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) optFloat(row []string, col string) *float64 {
	s := t.str(row, col)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		t.bad(col, s)
		return nil
	}
	return &v
}

func (t *table) optInt(row []string, col string) *int {
	f := t.optFloat(row, col)
	if f == nil {
		return nil
	}
	if *f != math.Trunc(*f) {
		t.bad(col, t.str(row, col))
		return nil
	}
	v := int(*f)
	return &v
}

func (t *table) intOrZero(row []string, col string) int {
	if v := t.optInt(row, col); v != nil {
		return *v
	}
	return 0
}

func (t *table) floatOrZero(row []string, col string) float64 {
	if v := t.optFloat(row, col); v != nil {
		return *v
	}
	return 0
}

// id parses the program key. Rows without one are unusable.
func (t *table) id(row []string) (int64, bool) {
	s := t.str(row, colProgramID)
	id, err := strconv.ParseInt(strings.TrimSuffix(s, ".0"), 10, 64)
	if err != nil || id <= 0 {
		t.bad(colProgramID, s)
		return 0, false
	}
	return id, true
}
