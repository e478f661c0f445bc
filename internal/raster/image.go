package raster

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"os"

	_ "golang.org/x/image/tiff" // register TIFF decoding

	"github.com/mcallistertad/coverage-analysis/internal/projection"
)

// imageDataset is a Dataset backed by a decoded raster image and an ESRI
// world file. The image is fully decoded at open time; reads after that
// are in-memory and stateless, so a single dataset can serve any number
// of concurrent lookups.
type imageDataset struct {
	img  image.Image
	wf   *worldFile
	proj projection.Projection
}

// Open decodes the raster image at path (TIFF, PNG or JPEG), loads its
// world file sidecar and returns a Dataset in the given spatial
// reference. A missing or undecodable image or world file is an error.
func Open(path string, proj projection.Projection) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening raster %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding raster %s: %w", path, err)
	}

	wfPath, err := findWorldFile(path)
	if err != nil {
		return nil, err
	}
	wf, err := parseWorldFile(wfPath)
	if err != nil {
		return nil, err
	}

	return &imageDataset{img: img, wf: wf, proj: proj}, nil
}

func (d *imageDataset) Width() int  { return d.img.Bounds().Dx() }
func (d *imageDataset) Height() int { return d.img.Bounds().Dy() }

func (d *imageDataset) Projection() projection.Projection { return d.proj }

func (d *imageDataset) Index(x, y float64) (row, col int) {
	return d.wf.index(x, y)
}

func (d *imageDataset) PixelRGB(row, col int) (r, g, b uint8, err error) {
	if row < 0 || col < 0 || row >= d.Height() || col >= d.Width() {
		return 0, 0, 0, fmt.Errorf("pixel (%d, %d) outside raster extent %dx%d",
			row, col, d.Width(), d.Height())
	}

	bounds := d.img.Bounds()
	r32, g32, b32, _ := d.img.At(bounds.Min.X+col, bounds.Min.Y+row).RGBA()
	return uint8(r32 >> 8), uint8(g32 >> 8), uint8(b32 >> 8), nil
}
