package coverage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidCoordinate reports coordinate text that does not split into
// exactly two numeric tokens.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ParseCoordinate parses a "lat,lon" string into WGS84 latitude and
// longitude in degrees. Tokens are trimmed of surrounding whitespace and
// must both be numeric; anything else fails with ErrInvalidCoordinate.
func ParseCoordinate(text string) (lat, lon float64, err error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q must be \"lat,lon\"", ErrInvalidCoordinate, text)
	}

	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: latitude %q is not numeric", ErrInvalidCoordinate, parts[0])
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: longitude %q is not numeric", ErrInvalidCoordinate, parts[1])
	}
	return lat, lon, nil
}
