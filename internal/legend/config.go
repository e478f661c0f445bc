package legend

import (
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk YAML legend definition:
//
//	levels:
//	  - color: "#CF6367"
//	    dbm: -80
//	  - color: "#EA6866"
//	    dbm: -90
//
// Entry order in the file defines classification tie-break order.
type fileConfig struct {
	Levels []levelConfig `yaml:"levels"`
}

type levelConfig struct {
	Color string `yaml:"color"`
	DBm   int    `yaml:"dbm"`
}

// FromFile loads a legend definition from a YAML file.
func FromFile(path string) (*Legend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading legend file: %w", err)
	}

	var config fileConfig
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing legend file: %w", err)
	}

	entries := make([]Entry, 0, len(config.Levels))
	for i, level := range config.Levels {
		c, err := colorful.Hex(level.Color)
		if err != nil {
			return nil, fmt.Errorf("legend entry %d: invalid color %q: %w", i, level.Color, err)
		}

		r, g, b := c.RGB255()
		entries = append(entries, Entry{
			Color: Color{R: r, G: g, B: b},
			Level: level.DBm,
		})
	}

	l, err := New(entries)
	if err != nil {
		return nil, fmt.Errorf("invalid legend %s: %w", path, err)
	}
	return l, nil
}
