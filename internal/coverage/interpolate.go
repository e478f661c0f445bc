package coverage

import (
	"errors"
	"fmt"
)

// Method selects how a classified coverage level is refined between two
// adjacent legend rungs. MethodNone disables interpolation; the
// classified level itself is the answer.
type Method string

const (
	MethodNone    Method = ""
	MethodLinear  Method = "linear"
	MethodAverage Method = "average"
)

// ErrUnsupportedMethod reports an interpolation method outside the
// supported set. It indicates a configuration mistake, not bad data, and
// callers should treat it as fatal.
var ErrUnsupportedMethod = errors.New("unsupported interpolation method")

// Valid reports whether the method is one of the supported values.
func (m Method) Valid() bool {
	switch m {
	case MethodNone, MethodLinear, MethodAverage:
		return true
	}
	return false
}

// Interpolate refines a classified level between two known levels based
// on the position of currentVal within [minVal, maxVal].
//
// When minVal equals maxVal there is nothing to interpolate across, and
// when no method is given interpolation is disabled; both cases return
// minLevel unchanged.
func Interpolate(minLevel, maxLevel, minVal, maxVal, currentVal float64, method Method) (float64, error) {
	if minVal == maxVal || method == MethodNone {
		return minLevel, nil
	}

	switch method {
	case MethodLinear:
		return minLevel + (maxLevel-minLevel)*(currentVal-minVal)/(maxVal-minVal), nil
	case MethodAverage:
		return (minLevel + maxLevel) / 2, nil
	default:
		return 0, fmt.Errorf("%w: %q (supported: linear, average)", ErrUnsupportedMethod, method)
	}
}
