// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps an audit trail of completed runs in SQLite. Each run
// gets a UUID and one row per input record. The ledger is write-only from
// the lookup path; nothing here is consulted when resolving records.
package ledger

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/seqref/pkg/types"
)

// timeLayout has fixed-width fractions so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when a run id is not in the ledger.
var ErrRunNotFound = errors.New("run not found")

// Store is the ledger database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger at path and ensures its schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating ledger directory")
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrap(err, "opening ledger")
	}

	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already-open database. The caller runs Migrate when the
// schema may be missing.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			dataset TEXT NOT NULL,
			mode TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			total INTEGER NOT NULL,
			found INTEGER NOT NULL,
			found_primary INTEGER NOT NULL,
			found_secondary INTEGER NOT NULL,
			not_found INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			protein TEXT NOT NULL,
			organism TEXT NOT NULL,
			accession_id TEXT,
			status TEXT NOT NULL,
			source TEXT,
			PRIMARY KEY (run_id, position)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "creating ledger schema")
		}
	}
	return nil
}

// Run is one ledger entry without its outcome rows.
type Run struct {
	ID         string
	Dataset    string
	Mode       types.RunMode
	StartedAt  time.Time
	FinishedAt time.Time
	Summary    types.Summary
}

// RecordRun stores report and all its rows in one transaction and returns
// the new run id.
func (s *Store) RecordRun(ctx context.Context, report types.RunReport) (string, error) {
	id := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	sum := report.Summary
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, dataset, mode, started_at, finished_at, total, found, found_primary, found_secondary, not_found)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, report.Dataset, report.Mode.String(),
		report.StartedAt.UTC().Format(timeLayout), report.FinishedAt.UTC().Format(timeLayout),
		sum.Total, sum.Found, sum.FoundByPrimary, sum.FoundBySecondary, sum.NotFound,
	)
	if err != nil {
		return "", errors.Wrap(err, "inserting run")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (run_id, position, protein, organism, accession_id, status, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", errors.Wrap(err, "preparing outcome insert")
	}
	defer stmt.Close()

	for i, row := range report.Rows {
		_, err := stmt.ExecContext(ctx, id, i, row.Protein, row.Organism, row.AccessionID, string(row.Status), string(row.Source))
		if err != nil {
			return "", errors.Wrapf(err, "inserting outcome %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, "committing run")
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive limit
// returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT id, dataset, mode, started_at, finished_at, total, found, found_primary, found_secondary, not_found
		  FROM runs ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating runs")
	}
	return runs, nil
}

// GetRun returns a single run by id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, dataset, mode, started_at, finished_at, total, found, found_primary, found_secondary, not_found
		 FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, errors.Wrapf(ErrRunNotFound, "run %s", id)
	}
	return r, err
}

// Outcomes returns the rows recorded for a run in input order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]types.ReportRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT protein, organism, accession_id, status, source
		 FROM outcomes WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "querying outcomes")
	}
	defer rows.Close()

	var out []types.ReportRow
	for rows.Next() {
		var (
			r                 types.ReportRow
			accession, source sql.NullString
			status            string
		)
		if err := rows.Scan(&r.Protein, &r.Organism, &accession, &status, &source); err != nil {
			return nil, errors.Wrap(err, "scanning outcome")
		}
		r.AccessionID = accession.String
		r.Status = types.Status(status)
		r.Source = types.SourceName(source.String)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating outcomes")
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r                 Run
		mode              string
		started, finished string
	)
	err := sc.Scan(&r.ID, &r.Dataset, &mode, &started, &finished,
		&r.Summary.Total, &r.Summary.Found, &r.Summary.FoundByPrimary, &r.Summary.FoundBySecondary, &r.Summary.NotFound)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, errors.Wrap(err, "scanning run")
	}
	if r.Mode, err = types.ParseRunMode(mode); err != nil {
		return Run{}, errors.Wrapf(err, "run %s", r.ID)
	}
	if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return Run{}, errors.Wrapf(err, "run %s started_at", r.ID)
	}
	if r.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return Run{}, errors.Wrapf(err, "run %s finished_at", r.ID)
	}
	return r, nil
}
