// Package raster provides read access to geo-referenced coverage map
// images: pixel dimensions, the native spatial reference, point to pixel
// indexing and per-pixel RGB reads.
package raster

import (
	"github.com/mcallistertad/coverage-analysis/internal/projection"
)

// Dataset is an open, read-only coverage raster. Implementations must be
// safe for concurrent reads; all methods are stateless per call.
type Dataset interface {
	// Width returns the raster width in pixels.
	Width() int

	// Height returns the raster height in pixels.
	Height() int

	// Projection returns the raster's native spatial reference.
	Projection() projection.Projection

	// Index maps a point in the raster's native coordinate system to a
	// (row, column) pixel address. The result may lie outside the raster
	// extent; bounds checking is the caller's responsibility.
	Index(x, y float64) (row, col int)

	// PixelRGB reads the three band values at the given pixel address.
	// It returns an error when the address is outside the raster extent.
	PixelRGB(row, col int) (r, g, b uint8, err error)
}
