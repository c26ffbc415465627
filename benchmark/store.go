package benchmark

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const resultsSchema = `
CREATE TABLE IF NOT EXISTS denoise_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	image TEXT NOT NULL,
	filter TEXT NOT NULL,
	parameters TEXT NOT NULL,
	mse REAL NOT NULL,
	psnr REAL NOT NULL,
	ssim REAL NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_denoise_results_run ON denoise_results(run_id);
`

// Store persists result records in SQLite so runs can be compared over time.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens (or creates) the results database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create database directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if _, err := db.Exec(resultsSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create results table")
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SaveRecords appends all records of one run in a single transaction.
func (s *Store) SaveRecords(ctx context.Context, runID string, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO denoise_results (run_id, image, filter, parameters, mse, psnr, ssim)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare insert")
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, runID, r.Image, r.Filter, r.Parameters, r.MSE, r.PSNR, r.SSIM); err != nil {
			return errors.Wrapf(err, "failed to insert record for %s", r.Image)
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit records")
}

// Records returns the records of one run in insertion order.
func (s *Store) Records(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT image, filter, parameters, mse, psnr, ssim
		FROM denoise_results
		WHERE run_id = ?
		ORDER BY id`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query records")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Image, &r.Filter, &r.Parameters, &r.MSE, &r.PSNR, &r.SSIM); err != nil {
			return nil, errors.Wrap(err, "failed to scan record")
		}
		records = append(records, r)
	}
	return records, errors.Wrap(rows.Err(), "failed to iterate records")
}

// Runs returns the distinct run ids stored, oldest first.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id FROM denoise_results GROUP BY run_id ORDER BY MIN(id)`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan run id")
		}
		runs = append(runs, id)
	}
	return runs, errors.Wrap(rows.Err(), "failed to iterate runs")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
