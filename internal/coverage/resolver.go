// Package coverage resolves geographic coordinates against a color-coded
// coverage raster into numeric signal strength readings in dBm.
package coverage

import (
	"fmt"
	"log/slog"

	"github.com/mcallistertad/coverage-analysis/internal/legend"
	"github.com/mcallistertad/coverage-analysis/internal/raster"
)

// Resolver turns "lat,lon" coordinate text into a coverage level by
// transforming the coordinate into the raster's pixel space, classifying
// the pixel color against the legend and optionally interpolating
// between adjacent legend rungs.
type Resolver struct {
	ds     raster.Dataset
	legend *legend.Legend
	method Method
	logger *slog.Logger
}

// NewResolver creates a resolver for the given raster and legend. The
// interpolation method is validated here so a misconfiguration surfaces
// before any coordinate is processed.
func NewResolver(ds raster.Dataset, l *legend.Legend, method Method, logger *slog.Logger) (*Resolver, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q (supported: linear, average)", ErrUnsupportedMethod, method)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		ds:     ds,
		legend: l,
		method: method,
		logger: logger,
	}, nil
}

// Resolve returns the coverage level in dBm at the given coordinate.
// A nil level means no coverage: the pixel is the sentinel background
// color, lies outside the raster extent, or could not be read. Those
// conditions are logged and never returned as errors so batch callers
// can keep going. The only error is ErrInvalidCoordinate for malformed
// coordinate text.
func (r *Resolver) Resolve(coordText string) (*float64, error) {
	lat, lon, err := ParseCoordinate(coordText)
	if err != nil {
		return nil, err
	}

	x, y := r.ds.Projection().FromWGS84(lon, lat)
	row, col := r.ds.Index(x, y)

	if row < 0 || col < 0 || row >= r.ds.Height() || col >= r.ds.Width() {
		r.logger.Warn("coordinates are out of raster bounds",
			slog.String("coordinates", coordText),
			slog.Int("row", row),
			slog.Int("col", col))
		return nil, nil
	}

	red, green, blue, err := r.ds.PixelRGB(row, col)
	if err != nil {
		r.logger.Warn("failed to read pixel",
			slog.String("coordinates", coordText),
			slog.String("error", err.Error()))
		return nil, nil
	}

	entry, ok := r.legend.Classify(legend.Color{R: red, G: green, B: blue})
	if !ok {
		return nil, nil // sentinel color, no coverage
	}

	level := float64(entry.Level)
	if entry.Level == r.legend.MaxLevel() {
		return &level, nil // already at the ceiling
	}
	if r.method == MethodNone {
		return &level, nil
	}

	next := float64(r.legend.NextLevel(entry.Level))
	value, err := Interpolate(level, next, level, next, level, r.method)
	if err != nil {
		return nil, err // method misconfiguration, validated at construction
	}
	return &value, nil
}
