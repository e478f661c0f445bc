package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// SentinelToken is written in place of the RSRP column for rows
	// without coverage or with unresolvable coordinates.
	SentinelToken = "Null"

	// OutputSuffix is appended to the input file's base name to form
	// the prediction output file.
	OutputSuffix = "_coverage_prediction.csv"
)

// ErrBadHeader reports an input CSV whose header row does not start with
// the Latitude and Longitude columns.
var ErrBadHeader = errors.New("invalid CSV header")

var outputHeader = []string{"Latitude", "Longitude", "RSRP"}

// OutputPath derives the prediction file path from the input CSV path:
// a sibling file with the same base name and the output suffix.
func OutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + OutputSuffix
}

// CSVSource reads coordinate rows from a comma-delimited file whose
// first two header columns are "latitude" and "longitude" (case
// insensitive). Extra columns are carried through untouched.
type CSVSource struct {
	f *os.File
	r *csv.Reader
}

// OpenCSV opens and validates the input file. The header row is consumed
// here; a malformed header fails with ErrBadHeader before any output is
// produced.
func OpenCSV(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may carry extra fields

	header, err := r.Read()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if len(header) < 2 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), "latitude") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "longitude") {
		_ = f.Close()
		return nil, fmt.Errorf("%w: first columns must be Latitude, Longitude, got %v", ErrBadHeader, header)
	}

	return &CSVSource{f: f, r: r}, nil
}

// Next returns the next data row. io.EOF signals the end of input.
func (s *CSVSource) Next() ([]string, error) {
	return s.r.Read()
}

// Close releases the underlying file.
func (s *CSVSource) Close() error {
	return s.f.Close()
}

// CSVSink writes prediction rows to a comma-delimited file with a
// Latitude,Longitude,RSRP header. Resolved levels are truncated to
// integers; the sentinel token stands in for missing coverage.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

// CreateCSVSink creates the output file and writes the header row.
func CreateCSVSink(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output CSV %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err = w.Write(outputHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("writing output header: %w", err)
	}

	return &CSVSink{f: f, w: w}, nil
}

// Write appends one prediction row in input order.
func (s *CSVSink) Write(lat, lon string, level *float64) error {
	rsrp := SentinelToken
	if level != nil {
		rsrp = strconv.Itoa(int(*level))
	}
	return s.w.Write([]string{lat, lon, rsrp})
}

// Close flushes buffered rows and closes the file.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		_ = s.f.Close()
		return fmt.Errorf("flushing output CSV: %w", err)
	}
	return s.f.Close()
}
