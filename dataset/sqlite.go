package dataset

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps exported datasets in a SQLite database, one set of rows
// per country. Each export replaces the country's previous rows.
type SQLiteStore struct {
	db *sql.DB
}

// ExportRun describes one recorded export.
type ExportRun struct {
	RunID       uuid.UUID
	Country     string
	RecordCount int
	ExportedAt  string
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS service_codes (
		country TEXT NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		code TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		provider TEXT NOT NULL,
		network TEXT NOT NULL,
		source TEXT,
		last_updated TEXT NOT NULL,
		run_id TEXT NOT NULL,
		PRIMARY KEY (country, id)
	);

	CREATE TABLE IF NOT EXISTS exports (
		run_id TEXT NOT NULL,
		country TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		exported_at TEXT NOT NULL,
		PRIMARY KEY (run_id, country)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save replaces the stored rows for country with records and logs the run.
func (s *SQLiteStore) Save(runID uuid.UUID, country string, records []Record, timestamp string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM service_codes WHERE country = ?`, country); err != nil {
		return fmt.Errorf("failed to clear previous records: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO service_codes (
			country, id, name, code, category, description,
			provider, network, source, last_updated, run_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var source *string
		if r.Source != "" {
			source = &r.Source
		}

		_, err := stmt.Exec(
			country, r.ID, r.Name, r.Code, r.Category, r.Description,
			r.Provider, r.Network, source, r.LastUpdated, runID.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert record %s: %w", r.ID, err)
		}
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO exports (run_id, country, record_count, exported_at)
		VALUES (?, ?, ?, ?)
	`, runID.String(), country, len(records), timestamp)
	if err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export: %w", err)
	}

	return nil
}

// Records returns the stored records for country in id order.
func (s *SQLiteStore) Records(country string) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, name, code, category, description, provider, network,
			source, last_updated
		FROM service_codes
		WHERE country = ?
		ORDER BY id
	`, country)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var source sql.NullString
		err := rows.Scan(
			&r.ID, &r.Name, &r.Code, &r.Category, &r.Description,
			&r.Provider, &r.Network, &source, &r.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.Source = source.String
		r.Country = country
		records = append(records, r)
	}

	return records, rows.Err()
}

// Exports lists the recorded export runs, most recent insertion last.
func (s *SQLiteStore) Exports() ([]ExportRun, error) {
	rows, err := s.db.Query(`
		SELECT run_id, country, record_count, exported_at
		FROM exports
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	var runs []ExportRun
	for rows.Next() {
		var run ExportRun
		var runID string
		if err := rows.Scan(&runID, &run.Country, &run.RecordCount, &run.ExportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}

		parsed, err := uuid.Parse(runID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run id: %w", err)
		}
		run.RunID = parsed
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
