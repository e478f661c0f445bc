// Package batch streams coordinate rows from a tabular source through the
// coverage resolver into a tabular sink, in fixed-size chunks, tolerating
// per-row failures.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mcallistertad/coverage-analysis/internal/coverage"
)

// DefaultChunkSize is the number of rows processed per chunk. Chunking
// bounds memory and gives progress reporting a natural unit; it has no
// effect on results.
const DefaultChunkSize = 20

// Source supplies input coordinate rows. Next returns io.EOF when the
// input is exhausted.
type Source interface {
	Next() ([]string, error)
}

// Sink receives one result row per input row, in input order. A nil
// level is the no-coverage sentinel.
type Sink interface {
	Write(lat, lon string, level *float64) error
}

// Pipeline drives the resolver over a row source. Every input row
// produces exactly one output row; rows that cannot be resolved degrade
// to the sentinel instead of aborting the batch.
type Pipeline struct {
	resolver  *coverage.Resolver
	chunkSize int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithChunkSize overrides the default chunk size.
func WithChunkSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

// WithLogger sets the logger used for progress and row diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a pipeline around the given resolver.
func NewPipeline(resolver *coverage.Resolver, options ...Option) *Pipeline {
	p := &Pipeline{
		resolver:  resolver,
		chunkSize: DefaultChunkSize,
		logger:    slog.Default(),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Run processes all rows from src into sink. It stops early only on sink
// or source failure, resolver misconfiguration, or context cancellation;
// bad rows are written as the sentinel and processing continues.
func (p *Pipeline) Run(ctx context.Context, src Source, sink Sink) error {
	var processed int64

	chunk := make([][]string, 0, p.chunkSize)
	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading input row: %w", err)
		}

		chunk = append(chunk, row)
		if len(chunk) >= p.chunkSize {
			if err = p.processChunk(ctx, chunk, sink, &processed); err != nil {
				return err
			}
			chunk = chunk[:0]
		}
	}

	if len(chunk) > 0 {
		if err := p.processChunk(ctx, chunk, sink, &processed); err != nil {
			return err
		}
	}

	p.logger.Info("batch complete", slog.String("rows", humanize.Comma(processed)))
	return nil
}

func (p *Pipeline) processChunk(ctx context.Context, rows [][]string, sink Sink, processed *int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, row := range rows {
		lat, lon, level, err := p.processRow(row)
		if err != nil {
			return err
		}
		if err = sink.Write(lat, lon, level); err != nil {
			return fmt.Errorf("writing result row: %w", err)
		}
		*processed++
	}

	p.logger.Info("processed rows", slog.String("count", humanize.Comma(*processed)))
	return nil
}

// processRow resolves a single input row. Invalid rows and unresolvable
// coordinates yield a nil level; the returned error is reserved for
// faults that must stop the batch.
func (p *Pipeline) processRow(row []string) (lat, lon string, level *float64, err error) {
	if len(row) > 0 {
		lat = strings.TrimSpace(row[0])
	}
	if len(row) > 1 {
		lon = strings.TrimSpace(row[1])
	}
	if lat == "" || lon == "" {
		p.logger.Warn("invalid coordinate row", slog.Any("row", row))
		return lat, lon, nil, nil
	}

	level, err = p.resolver.Resolve(lat + "," + lon)
	if err != nil {
		if errors.Is(err, coverage.ErrInvalidCoordinate) {
			p.logger.Warn("invalid coordinates", slog.String("error", err.Error()))
			return lat, lon, nil, nil
		}
		// Anything else indicates misconfiguration and would corrupt
		// every remaining row; stop the batch.
		return lat, lon, nil, err
	}
	return lat, lon, level, nil
}
