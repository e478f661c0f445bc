package raster

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mcallistertad/coverage-analysis/internal/projection"
)

// writeTestRaster writes a small north-up PNG raster with its world file.
// The raster is anchored at (-6.25, 53.30) in EPSG:4326 with a pixel size
// of 0.01 degrees, covering roughly the Dublin area.
func writeTestRaster(t *testing.T, dir string, fill color.RGBA, pixels map[[2]int]color.RGBA) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, fill)
		}
	}
	for loc, c := range pixels {
		img.Set(loc[1], loc[0], c) // loc is (row, col)
	}

	path := filepath.Join(dir, "coverage.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating raster: %v", err)
	}
	if err = png.Encode(f, img); err != nil {
		t.Fatalf("encoding raster: %v", err)
	}
	if err = f.Close(); err != nil {
		t.Fatalf("closing raster: %v", err)
	}

	wf := "0.01\n0.0\n0.0\n-0.01\n-6.25\n53.30\n"
	if err = os.WriteFile(filepath.Join(dir, "coverage.pgw"), []byte(wf), 0o644); err != nil {
		t.Fatalf("writing world file: %v", err)
	}
	return path
}

func TestOpen_MissingFiles(t *testing.T) {
	dir := t.TempDir()

	if _, err := Open(filepath.Join(dir, "missing.png"), projection.WGS84{}); err == nil {
		t.Error("expected error for missing raster")
	}

	// Raster present, world file absent
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	path := filepath.Join(dir, "orphan.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating raster: %v", err)
	}
	if err = png.Encode(f, img); err != nil {
		t.Fatalf("encoding raster: %v", err)
	}
	f.Close()

	if _, err = Open(path, projection.WGS84{}); err == nil {
		t.Error("expected error for missing world file")
	}
}

func TestImageDataset_Dimensions(t *testing.T) {
	path := writeTestRaster(t, t.TempDir(), color.RGBA{255, 255, 255, 255}, nil)

	ds, err := Open(path, projection.WGS84{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if ds.Width() != 10 || ds.Height() != 10 {
		t.Errorf("dimensions = %dx%d, want 10x10", ds.Width(), ds.Height())
	}
	if ds.Projection().EPSG() != 4326 {
		t.Errorf("EPSG = %d, want 4326", ds.Projection().EPSG())
	}
}

func TestImageDataset_Index(t *testing.T) {
	path := writeTestRaster(t, t.TempDir(), color.RGBA{255, 255, 255, 255}, nil)

	ds, err := Open(path, projection.WGS84{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	testCases := []struct {
		name     string
		x, y     float64
		row, col int
	}{
		{"center of top-left pixel", -6.25, 53.30, 0, 0},
		{"one pixel east", -6.24, 53.30, 0, 1},
		{"one pixel south", -6.25, 53.29, 1, 0},
		{"interior point", -6.204, 53.273, 3, 5},
		{"west of raster", -6.27, 53.30, 0, -2},
		{"north of raster", -6.25, 53.32, -2, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			row, col := ds.Index(tc.x, tc.y)
			if row != tc.row || col != tc.col {
				t.Errorf("Index(%f, %f) = (%d, %d), want (%d, %d)",
					tc.x, tc.y, row, col, tc.row, tc.col)
			}
		})
	}
}

func TestImageDataset_PixelRGB(t *testing.T) {
	path := writeTestRaster(t, t.TempDir(), color.RGBA{255, 255, 255, 255},
		map[[2]int]color.RGBA{
			{2, 4}: {207, 99, 103, 255},
		})

	ds, err := Open(path, projection.WGS84{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	r, g, b, err := ds.PixelRGB(2, 4)
	if err != nil {
		t.Fatalf("PixelRGB(2, 4): %v", err)
	}
	if r != 207 || g != 99 || b != 103 {
		t.Errorf("PixelRGB(2, 4) = (%d, %d, %d), want (207, 99, 103)", r, g, b)
	}

	for _, loc := range [][2]int{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		if _, _, _, err = ds.PixelRGB(loc[0], loc[1]); err == nil {
			t.Errorf("PixelRGB(%d, %d): expected out-of-extent error", loc[0], loc[1])
		}
	}
}

func TestParseWorldFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name    string
		content string
	}{
		{"too few lines", "0.01\n0.0\n0.0\n"},
		{"non-numeric", "0.01\n0.0\nzero\n-0.01\n-6.25\n53.30\n"},
		{"degenerate transform", "0.0\n0.0\n0.0\n0.0\n-6.25\n53.30\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".wld")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("writing world file: %v", err)
			}
			if _, err := parseWorldFile(path); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}
