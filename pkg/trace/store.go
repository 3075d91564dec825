package trace

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	cv   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS samples (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	t      REAL NOT NULL,
	v      REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS samples_run ON samples(run_id, t);
`

// Store archives recorded traces in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the database at path. Use
// ":memory:" for a throwaway store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("trace: opening store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores a named trace and returns its run id.
func (s *Store) SaveRun(name string, r *Recorder) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("trace: saving run: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs (name, cv) VALUES (?, ?)`, name, r.CV())
	if err != nil {
		return 0, fmt.Errorf("trace: saving run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("trace: saving run: %w", err)
	}

	ins, err := tx.Prepare(`INSERT INTO samples (run_id, t, v) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("trace: saving run: %w", err)
	}
	defer ins.Close()
	for _, sample := range r.Samples() {
		if _, err := ins.Exec(id, sample.Time, sample.Voltage); err != nil {
			return 0, fmt.Errorf("trace: saving sample at t=%g: %w", sample.Time, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("trace: saving run: %w", err)
	}
	return id, nil
}

// LoadRun reads back the samples of a stored run in time order.
func (s *Store) LoadRun(id int64) ([]Sample, error) {
	rows, err := s.db.Query(`SELECT t, v FROM samples WHERE run_id = ? ORDER BY t`, id)
	if err != nil {
		return nil, fmt.Errorf("trace: loading run %d: %w", id, err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var smp Sample
		if err := rows.Scan(&smp.Time, &smp.Voltage); err != nil {
			return nil, fmt.Errorf("trace: loading run %d: %w", id, err)
		}
		samples = append(samples, smp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trace: loading run %d: %w", id, err)
	}
	return samples, nil
}
