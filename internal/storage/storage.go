// Package storage persists batch prediction results to SQLite as an
// alternative output sink to the CSV sibling file.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Prediction is one resolved coordinate row. RSRP is NULL for rows
// without coverage.
type Prediction struct {
	Latitude  string
	Longitude string
	RSRP      sql.NullInt64
}

// Store handles database operations for prediction runs.
type Store struct {
	dbPath string

	db     *sql.DB
	dbOnce sync.Once
	dbErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a store for the database at dbPath. The connection is
// opened and the schema initialized lazily on first write.
func New(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func (s *Store) getDB() (*sql.DB, error) {
	s.dbOnce.Do(func() {
		db, err := sql.Open("sqlite3", s.dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
		if err != nil {
			s.dbErr = err
			return
		}
		if _, err = db.Exec(schemaSQL); err != nil {
			_ = db.Close()
			s.dbErr = err
			return
		}
		s.db = db
	})
	return s.db, s.dbErr
}

const insertRunSQL = `
INSERT INTO runs (started_at, raster_path, epsg, interpolation)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?)`

// CreateRun records a new prediction run and returns its ID.
func (s *Store) CreateRun(rasterPath string, epsg int, interpolation string) (runID int64, err error) {
	db, err := s.getDB()
	if err != nil {
		return 0, fmt.Errorf("getting connection: %w", err)
	}

	var method sql.NullString
	if interpolation != "" {
		method.Valid = true
		method.String = interpolation
	}

	stmt, err := db.Prepare(insertRunSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer func() {
		if cErr := stmt.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing statement: %w", cErr)
		}
	}()

	result, err := stmt.Exec(rasterPath, epsg, method)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return result.LastInsertId()
}

const insertPredictionSQL = `
INSERT INTO predictions (run_id, latitude, longitude, rsrp)
VALUES (?, ?, ?, ?)`

// BatchInsertPredictions inserts multiple predictions in a single
// transaction, preserving slice order.
func (s *Store) BatchInsertPredictions(runID int64, predictions []Prediction) (err error) {
	if len(predictions) == 0 {
		return
	}

	db, err := s.getDB()
	if err != nil {
		return fmt.Errorf("getting connection: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if cErr := tx.Rollback(); cErr != nil && err == nil {
			err = fmt.Errorf("rolling back transaction: %w", cErr)
		}
	}()

	stmt, err := tx.Prepare(insertPredictionSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() {
		if cErr := stmt.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing statement: %w", cErr)
		}
	}()

	for _, p := range predictions {
		if _, err = stmt.Exec(runID, p.Latitude, p.Longitude, p.RSRP); err != nil {
			return fmt.Errorf("inserting prediction: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true

	return
}

// Close closes the database connection. It is safe to call multiple
// times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.db != nil {
			s.closeErr = s.db.Close()
			s.db = nil
		}
	})
	return s.closeErr
}
