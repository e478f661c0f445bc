package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// defaultFlushSize is the number of buffered predictions written per
// transaction.
const defaultFlushSize = 20

// Sink adapts a Store to the batch pipeline's output interface. Rows are
// buffered and flushed in transactional batches; Close flushes the
// remainder and releases the database.
type Sink struct {
	store *Store
	runID int64
	buf   []Prediction
}

// NewSink opens (or creates) the database at dbPath and records a new
// run with the given parameters.
func NewSink(dbPath, rasterPath string, epsg int, interpolation string) (*Sink, error) {
	store := New(dbPath)

	runID, err := store.CreateRun(rasterPath, epsg, interpolation)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("creating run: %w", err)
	}

	return &Sink{
		store: store,
		runID: runID,
		buf:   make([]Prediction, 0, defaultFlushSize),
	}, nil
}

// Write buffers one prediction row. A nil level is stored as NULL RSRP.
func (s *Sink) Write(lat, lon string, level *float64) error {
	p := Prediction{Latitude: lat, Longitude: lon}
	if level != nil {
		p.RSRP = sql.NullInt64{Int64: int64(*level), Valid: true}
	}

	s.buf = append(s.buf, p)
	if len(s.buf) >= defaultFlushSize {
		return s.flush()
	}
	return nil
}

// Close flushes buffered rows and closes the database.
func (s *Sink) Close() error {
	flushErr := s.flush()
	closeErr := s.store.Close()
	return errors.Join(flushErr, closeErr)
}

func (s *Sink) flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	if err := s.store.BatchInsertPredictions(s.runID, s.buf); err != nil {
		return fmt.Errorf("flushing predictions: %w", err)
	}
	s.buf = s.buf[:0]
	return nil
}
