package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/mcallistertad/coverage-analysis/internal/coverage"
	"github.com/mcallistertad/coverage-analysis/internal/projection"
)

const defaultEPSG = 3857 // web mercator, the usual projection of coverage map exports

// Config holds the command line configuration for a coverage run.
type Config struct {
	RasterPath    string
	Coordinates   string
	CSVPath       string
	Interpolation coverage.Method
	LegendPath    string
	EPSG          int
	DBPath        string
	Verbose       bool
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{EPSG: defaultEPSG}
}

// NewConfigFromCLI parses and validates command line flags.
func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var interpolation string
	flag.StringVar(&c.RasterPath, "g", "", "Path to the coverage raster (TIFF, PNG or JPEG with a world file)")
	flag.StringVar(&c.Coordinates, "c", "", "Latitude and longitude separated by comma (e.g. '53.2716088,-6.2073869')")
	flag.StringVar(&c.CSVPath, "f", "", "Path to the input CSV file")
	flag.StringVar(&interpolation, "i", "", "Interpolation method for RSRP values. [linear, average]")
	flag.StringVar(&c.LegendPath, "legend", "", "Path to a YAML legend definition (built-in legend if omitted)")
	flag.IntVar(&c.EPSG, "epsg", defaultEPSG, "EPSG code of the raster's spatial reference. [4326, 3857]")
	flag.StringVar(&c.DBPath, "db", "", "Write batch results to this SQLite database instead of a CSV file")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	c.Interpolation = coverage.Method(strings.ToLower(interpolation))

	if err := c.Validate(); err != nil {
		flag.Usage()
		return nil, err
	}
	return c, nil
}

// Validate checks the configuration shape before any processing starts.
func (c *Config) Validate() error {
	switch {
	case c.RasterPath == "":
		return errors.New("raster path is required")
	case c.Coordinates == "" && c.CSVPath == "":
		return errors.New("either coordinates or a CSV file must be provided")
	case c.Coordinates != "" && c.CSVPath != "":
		return errors.New("coordinates and a CSV file are mutually exclusive")
	case c.DBPath != "" && c.CSVPath == "":
		return errors.New("database output requires a CSV input file")
	case !c.Interpolation.Valid():
		return fmt.Errorf("invalid interpolation method: %q (supported: linear, average)", c.Interpolation)
	}

	if _, err := projection.ForEPSG(c.EPSG); err != nil {
		return err
	}
	return nil
}
