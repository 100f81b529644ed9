package sinks

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/biocircuit/genesim/internal/genex"
)

// SQLiteSink stores snapshot rows in a SQLite database, keyed by a run ID so
// several runs (or replicates) can share one results file.
type SQLiteSink struct {
	db    *sql.DB
	runID string
}

// NewSQLiteSink opens (creating if needed) the database at path and records
// a new run with the given name.
func NewSQLiteSink(path, runName string) (*SQLiteSink, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteSink{db: db, runID: uuid.NewString()}
	_, err = db.Exec(`
		INSERT INTO runs (id, name, created_at)
		VALUES (?, ?, ?)
	`, s.runID, runName, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("recording run: %w", err)
	}
	return s, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS counts (
			run_id TEXT NOT NULL REFERENCES runs(id),
			time REAL NOT NULL,
			species TEXT NOT NULL,
			protein INTEGER NOT NULL,
			transcript INTEGER NOT NULL,
			ribo_density REAL NOT NULL,
			collisions INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_counts_run_time ON counts(run_id, time);
	`)
	return err
}

// RunID returns the identifier of the run this sink records.
func (s *SQLiteSink) RunID() string {
	return s.runID
}

// Write stores one snapshot batch in a single transaction.
func (s *SQLiteSink) Write(rows []genex.CountRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO counts (run_id, time, species, protein, transcript, ribo_density, collisions)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(s.runID, row.Time, row.Name, row.Count, row.Transcript, row.RiboDensity, row.Collisions); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("inserting count row for %q: %w", row.Name, err)
		}
	}
	return tx.Commit()
}

// Rows reads back every stored row for this sink's run, ordered by time then
// species name.
func (s *SQLiteSink) Rows() ([]genex.CountRow, error) {
	result, err := s.db.Query(`
		SELECT time, species, protein, transcript, ribo_density, collisions
		FROM counts WHERE run_id = ? ORDER BY time, species
	`, s.runID)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	var rows []genex.CountRow
	for result.Next() {
		var row genex.CountRow
		if err := result.Scan(&row.Time, &row.Name, &row.Count, &row.Transcript, &row.RiboDensity, &row.Collisions); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, result.Err()
}

// Close closes the underlying database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
