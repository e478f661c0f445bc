package projection

import (
	"fmt"
	"math"
)

const earthRadius = 6378137.0 // WGS84 semi-major axis in meters

// Projection converts point coordinates between WGS84 (EPSG:4326) and a
// raster's native spatial reference system.
type Projection interface {
	// FromWGS84 converts WGS84 longitude/latitude in degrees into native
	// coordinates.
	FromWGS84(lon, lat float64) (x, y float64)

	// ToWGS84 converts native coordinates into WGS84 longitude/latitude
	// in degrees.
	ToWGS84(x, y float64) (lon, lat float64)

	// EPSG returns the EPSG code of the native spatial reference.
	EPSG() int
}

// ForEPSG returns the Projection for the given EPSG code.
func ForEPSG(code int) (Projection, error) {
	switch code {
	case 4326:
		return WGS84{}, nil
	case 3857:
		return WebMercator{}, nil
	default:
		return nil, fmt.Errorf("unsupported EPSG code: %d", code)
	}
}

// WGS84 is the identity projection for rasters already in EPSG:4326.
type WGS84 struct{}

func (WGS84) FromWGS84(lon, lat float64) (x, y float64) { return lon, lat }
func (WGS84) ToWGS84(x, y float64) (lon, lat float64)   { return x, y }
func (WGS84) EPSG() int                                 { return 4326 }

// WebMercator is the spherical mercator projection (EPSG:3857) used by
// most coverage map exports and web tile services.
type WebMercator struct{}

func (WebMercator) FromWGS84(lon, lat float64) (x, y float64) {
	x = earthRadius * lon * math.Pi / 180
	y = earthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

func (WebMercator) ToWGS84(x, y float64) (lon, lat float64) {
	lon = x / earthRadius * 180 / math.Pi
	lat = (2*math.Atan(math.Exp(y/earthRadius)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}

func (WebMercator) EPSG() int { return 3857 }
