package raster

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// worldFileExtensions are tried in order when locating the georeferencing
// sidecar for a raster image.
var worldFileExtensions = []string{".tfw", ".pgw", ".wld"}

// worldFile is an ESRI world file: the affine transform from pixel
// addresses to native map coordinates. Six lines, in order:
//
//	A  x-component of the pixel width
//	D  y-component of the pixel width (rotation)
//	B  x-component of the pixel height (rotation)
//	E  y-component of the pixel height (negative for north-up)
//	C  x coordinate of the CENTER of the top-left pixel
//	F  y coordinate of the CENTER of the top-left pixel
type worldFile struct {
	A, D, B, E, C, F float64
}

// parseWorldFile reads a six-line world file.
func parseWorldFile(path string) (*worldFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file: %w", err)
	}

	var values []float64
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("world file %s: invalid line %q: %w", path, line, err)
		}
		values = append(values, v)
	}
	if len(values) != 6 {
		return nil, fmt.Errorf("world file %s: expected 6 parameters, got %d", path, len(values))
	}

	wf := &worldFile{
		A: values[0],
		D: values[1],
		B: values[2],
		E: values[3],
		C: values[4],
		F: values[5],
	}
	if wf.A*wf.E-wf.B*wf.D == 0 {
		return nil, fmt.Errorf("world file %s: transform is not invertible", path)
	}
	return wf, nil
}

// findWorldFile locates the world file next to a raster image.
func findWorldFile(imagePath string) (string, error) {
	base := strings.TrimSuffix(imagePath, filepath.Ext(imagePath))
	for _, ext := range worldFileExtensions {
		path := base + ext
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no world file (%s) found for %s",
		strings.Join(worldFileExtensions, ", "), imagePath)
}

// index inverts the affine transform, mapping a native coordinate to a
// pixel (row, column). World file coordinates address pixel centers, so
// the origin is shifted back by half a pixel before flooring, matching
// the indexing convention of GIS raster readers.
func (wf *worldFile) index(x, y float64) (row, col int) {
	// Shift from center-of-pixel origin to the outer corner of the
	// top-left pixel.
	cx := wf.C - (wf.A+wf.B)/2
	cy := wf.F - (wf.D+wf.E)/2

	det := wf.A*wf.E - wf.B*wf.D
	fcol := (wf.E*(x-cx) - wf.B*(y-cy)) / det
	frow := (wf.A*(y-cy) - wf.D*(x-cx)) / det

	return int(math.Floor(frow)), int(math.Floor(fcol))
}
