package coverage

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"testing"

	"github.com/mcallistertad/coverage-analysis/internal/legend"
	"github.com/mcallistertad/coverage-analysis/internal/projection"
)

// fakeDataset is a 10x10 in-memory raster in EPSG:4326 with a pixel size
// of 1 degree, anchored so that (lat 53, lon -6) lands on pixel (0, 0).
type fakeDataset struct {
	pixels map[[2]int][3]uint8
	fill   [3]uint8
}

func newFakeDataset(fill [3]uint8) *fakeDataset {
	return &fakeDataset{pixels: make(map[[2]int][3]uint8), fill: fill}
}

func (d *fakeDataset) Width() int  { return 10 }
func (d *fakeDataset) Height() int { return 10 }

func (d *fakeDataset) Projection() projection.Projection { return projection.WGS84{} }

func (d *fakeDataset) Index(x, y float64) (row, col int) {
	return int(math.Floor(53.5 - y)), int(math.Floor(x + 6.5))
}

func (d *fakeDataset) PixelRGB(row, col int) (r, g, b uint8, err error) {
	if row < 0 || col < 0 || row >= d.Height() || col >= d.Width() {
		return 0, 0, 0, fmt.Errorf("pixel (%d, %d) outside raster", row, col)
	}
	if c, ok := d.pixels[[2]int{row, col}]; ok {
		return c[0], c[1], c[2], nil
	}
	return d.fill[0], d.fill[1], d.fill[2], nil
}

func newResolver(t *testing.T, ds *fakeDataset, method Method) *Resolver {
	t.Helper()
	r, err := NewResolver(ds, legend.Default(), method, slog.Default())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func TestNewResolver_RejectsUnknownMethod(t *testing.T) {
	ds := newFakeDataset([3]uint8{255, 255, 255})
	_, err := NewResolver(ds, legend.Default(), Method("cubic"), slog.Default())
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Errorf("err = %v, want ErrUnsupportedMethod", err)
	}
}

func TestResolve_MaxCoverageNoInterpolation(t *testing.T) {
	ds := newFakeDataset([3]uint8{207, 99, 103}) // -80 dBm, the ceiling

	// Interpolation requested, but the ceiling level short-circuits it
	r := newResolver(t, ds, MethodAverage)

	level, err := r.Resolve("53,-6")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if level == nil || *level != -80 {
		t.Errorf("level = %v, want -80 exactly", level)
	}
}

func TestResolve_ClassifiedLevelWithoutInterpolation(t *testing.T) {
	ds := newFakeDataset([3]uint8{243, 172, 103}) // -100 dBm
	r := newResolver(t, ds, MethodNone)

	level, err := r.Resolve("53,-6")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if level == nil || *level != -100 {
		t.Errorf("level = %v, want -100", level)
	}
}

func TestResolve_Interpolation(t *testing.T) {
	testCases := []struct {
		name   string
		pixel  [3]uint8
		method Method
		want   float64
	}{
		// Linear interpolation degenerates to the classified rung:
		// the classified level is both the value and the lower bound.
		{"linear at -100", [3]uint8{243, 172, 103}, MethodLinear, -100},
		{"linear at -108", [3]uint8{248, 209, 191}, MethodLinear, -108},
		// Average picks the midpoint between the rung and the next one
		// strictly below the ceiling (falls back to the ceiling).
		{"average at -100, next -90", [3]uint8{243, 172, 103}, MethodAverage, -95},
		{"average at -108, next -100", [3]uint8{248, 209, 191}, MethodAverage, -104},
		{"average at -90, falls back to max", [3]uint8{234, 104, 102}, MethodAverage, -85},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newResolver(t, newFakeDataset(tc.pixel), tc.method)

			level, err := r.Resolve("53,-6")
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if level == nil {
				t.Fatal("level = nil, want a value")
			}
			if *level != tc.want {
				t.Errorf("level = %f, want %f", *level, tc.want)
			}
		})
	}
}

func TestResolve_SentinelPixel(t *testing.T) {
	ds := newFakeDataset([3]uint8{255, 255, 255})
	r := newResolver(t, ds, MethodNone)

	level, err := r.Resolve("53,-6")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if level != nil {
		t.Errorf("level = %f, want nil (no coverage)", *level)
	}
}

func TestResolve_OutOfBounds(t *testing.T) {
	ds := newFakeDataset([3]uint8{207, 99, 103})
	r := newResolver(t, ds, MethodNone)

	// Far away from the 10x10 degree window; must degrade to no
	// coverage, never an error.
	for _, coord := range []string{"0,0", "53,100", "-40,-6", "89,-170"} {
		level, err := r.Resolve(coord)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", coord, err)
		}
		if level != nil {
			t.Errorf("Resolve(%q) = %f, want nil", coord, *level)
		}
	}
}

func TestResolve_InvalidCoordinate(t *testing.T) {
	ds := newFakeDataset([3]uint8{207, 99, 103})
	r := newResolver(t, ds, MethodNone)

	for _, coord := range []string{"", "53", "53,-6,0", "here,there"} {
		_, err := r.Resolve(coord)
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("Resolve(%q): err = %v, want ErrInvalidCoordinate", coord, err)
		}
	}
}
