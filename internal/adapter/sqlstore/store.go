// Package sqlstore persists classification records in a SQL database. It
// supports PostgreSQL through lib/pq and SQLite through modernc.org/sqlite.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/baseball-program-finder/internal/config"
	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/couchcryptid/baseball-program-finder/internal/fit"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS classification (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    program_id BIGINT NOT NULL,
    program_name TEXT NOT NULL,
    classification TEXT NOT NULL,
    suggested TEXT NOT NULL,
    auto_suggested INTEGER NOT NULL,
    athletic_score DOUBLE PRECISION NOT NULL,
    academic_score DOUBLE PRECISION NOT NULL,
    overall_score DOUBLE PRECISION NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    classified_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_classification_user ON classification(user_id);
`

const columns = `id, user_id, program_id, program_name, classification, suggested, auto_suggested,
    athletic_score, academic_score, overall_score, notes, classified_at, updated_at`

// Store implements fit.Store.
type Store struct {
	db     *sql.DB
	driver string
}

var _ fit.Store = (*Store)(nil)

// Open connects to dsn with the named driver and creates the schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	name, ok := driverNames[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == config.DriverSQLite {
		// One connection keeps an in-memory database alive and serialises writers.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

var driverNames = map[string]string{
	config.DriverSQLite:   "sqlite",
	config.DriverPostgres: "postgres",
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CheckReadiness pings the database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("store ping: %w", err)
	}
	return nil
}

// Upsert inserts rec or replaces the stored record with the same key.
func (s *Store) Upsert(ctx context.Context, rec domain.ClassificationRecord) error {
	query := s.rebind(`
		INSERT INTO classification (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			program_name = excluded.program_name,
			classification = excluded.classification,
			suggested = excluded.suggested,
			auto_suggested = excluded.auto_suggested,
			athletic_score = excluded.athletic_score,
			academic_score = excluded.academic_score,
			overall_score = excluded.overall_score,
			notes = excluded.notes,
			classified_at = excluded.classified_at,
			updated_at = excluded.updated_at
	`)

	_, err := s.db.ExecContext(ctx, query,
		rec.Key(), rec.UserID, rec.ProgramID, rec.ProgramName,
		string(rec.Classification), string(rec.Suggested), boolInt(rec.AutoSuggested),
		rec.Scores.AthleticScore, rec.Scores.AcademicScore, rec.Scores.OverallScore,
		rec.Notes, rec.ClassifiedAt.UnixMilli(), rec.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", rec.Key(), err)
	}
	return nil
}

// Get returns the record for (userID, programID) or fit.ErrNotFound.
func (s *Store) Get(ctx context.Context, userID string, programID int64) (domain.ClassificationRecord, error) {
	key := domain.RecordKey(userID, programID)
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+columns+` FROM classification WHERE id = ?`), key)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ClassificationRecord{}, fmt.Errorf("get %s: %w", key, fit.ErrNotFound)
	}
	if err != nil {
		return domain.ClassificationRecord{}, fmt.Errorf("get %s: %w", key, err)
	}
	return rec, nil
}

// List returns every record of userID, most recently updated first.
func (s *Store) List(ctx context.Context, userID string) ([]domain.ClassificationRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT `+columns+` FROM classification
		WHERE user_id = ?
		ORDER BY updated_at DESC, program_id ASC
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", userID, err)
	}
	defer rows.Close()

	var out []domain.ClassificationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", userID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", userID, err)
	}
	return out, nil
}

// UpdateNotes replaces the notes of an existing record.
func (s *Store) UpdateNotes(ctx context.Context, userID string, programID int64, notes string, at time.Time) error {
	key := domain.RecordKey(userID, programID)
	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE classification SET notes = ?, updated_at = ? WHERE id = ?`),
		notes, at.UnixMilli(), key,
	)
	if err != nil {
		return fmt.Errorf("update notes %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update notes %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("update notes %s: %w", key, fit.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (domain.ClassificationRecord, error) {
	var (
		rec                   domain.ClassificationRecord
		id, class, suggested  string
		auto                  int
		classifiedAt, updated int64
	)
	err := sc.Scan(&id, &rec.UserID, &rec.ProgramID, &rec.ProgramName, &class, &suggested, &auto,
		&rec.Scores.AthleticScore, &rec.Scores.AcademicScore, &rec.Scores.OverallScore,
		&rec.Notes, &classifiedAt, &updated)
	if err != nil {
		return domain.ClassificationRecord{}, err
	}
	rec.Classification = domain.Classification(class)
	rec.Suggested = domain.Classification(suggested)
	rec.Scores.Classification = rec.Suggested
	rec.AutoSuggested = auto != 0
	rec.ClassifiedAt = time.UnixMilli(classifiedAt).UTC()
	rec.UpdatedAt = time.UnixMilli(updated).UTC()
	return rec, nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != config.DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
