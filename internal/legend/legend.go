// Package legend maps coverage map colors to received signal strength
// levels. A legend is the visual key of a color-coded coverage raster:
// a small, ordered set of colors, each standing for a discrete RSRP
// level in dBm.
package legend

import (
	"fmt"
	"sort"
)

// Sentinel is the background color of a coverage raster. It marks pixels
// with no signal and is never a legend key.
var Sentinel = Color{255, 255, 255}

// Color is an 8-bit RGB triple. It is used both for legend keys and for
// observed raster pixels.
type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// DistanceSq returns the squared Euclidean distance to another color.
func (c Color) DistanceSq(o Color) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// Entry is a single legend row: a color and the RSRP level it encodes.
type Entry struct {
	Color Color
	Level int // dBm
}

// Legend is an immutable, ordered color to RSRP level mapping. Entry
// order is significant: classification ties are broken by the first
// matching entry.
type Legend struct {
	entries  []Entry
	min, max int
}

// Default returns the reference legend used by coverage map exports:
// four bands between -108 and -80 dBm.
func Default() *Legend {
	l, err := New([]Entry{
		{Color{207, 99, 103}, -80},
		{Color{234, 104, 102}, -90},
		{Color{243, 172, 103}, -100},
		{Color{248, 209, 191}, -108},
	})
	if err != nil {
		panic(err) // reference legend is known valid
	}
	return l
}

// New builds a legend from the given entries, validating that colors and
// levels are unique and that the sentinel color is not used as a key.
func New(entries []Entry) (*Legend, error) {
	if len(entries) < 2 {
		return nil, fmt.Errorf("legend requires at least two entries, got %d", len(entries))
	}

	colors := make(map[Color]struct{}, len(entries))
	levels := make(map[int]struct{}, len(entries))

	l := &Legend{entries: make([]Entry, len(entries))}
	copy(l.entries, entries)

	l.min, l.max = entries[0].Level, entries[0].Level
	for _, e := range entries {
		if e.Color == Sentinel {
			return nil, fmt.Errorf("sentinel color %s cannot be a legend key", Sentinel)
		}
		if _, ok := colors[e.Color]; ok {
			return nil, fmt.Errorf("duplicate legend color %s", e.Color)
		}
		if _, ok := levels[e.Level]; ok {
			return nil, fmt.Errorf("duplicate legend level %d dBm", e.Level)
		}
		colors[e.Color] = struct{}{}
		levels[e.Level] = struct{}{}

		l.min = min(l.min, e.Level)
		l.max = max(l.max, e.Level)
	}
	return l, nil
}

// MinLevel returns the lowest RSRP level in the legend in dBm.
func (l *Legend) MinLevel() int { return l.min }

// MaxLevel returns the highest RSRP level in the legend in dBm. The
// maximum is a distinguished level: a pixel classified at the ceiling
// needs no interpolation.
func (l *Legend) MaxLevel() int { return l.max }

// Entries returns the legend rows in classification order.
func (l *Legend) Entries() []Entry {
	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Classify finds the legend entry whose color is nearest to the observed
// pixel color by squared Euclidean distance. The second return value is
// false when the observed color is the sentinel, meaning no coverage.
// Ties are broken by entry order: the first minimal match wins.
func (l *Legend) Classify(observed Color) (Entry, bool) {
	if observed == Sentinel {
		return Entry{}, false
	}

	best := l.entries[0]
	bestDist := best.Color.DistanceSq(observed)
	for _, e := range l.entries[1:] {
		if d := e.Color.DistanceSq(observed); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, true
}

// NextLevel returns the first legend level strictly between the given
// level and the legend maximum, scanning levels in ascending order. It
// falls back to the maximum when no such level exists.
func (l *Legend) NextLevel(level int) int {
	levels := make([]int, 0, len(l.entries))
	for _, e := range l.entries {
		levels = append(levels, e.Level)
	}
	sort.Ints(levels)

	for _, candidate := range levels {
		if level < candidate && candidate < l.max {
			return candidate
		}
	}
	return l.max
}
