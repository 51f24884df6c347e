package calc

import (
	"math"
	"strconv"
)

// ResultPrecision is the number of decimal places non-integer results
// are rounded to.
const ResultPrecision = 10

// Format renders v in canonical form: integers without a fractional part,
// everything else rounded to ResultPrecision decimal places, always in
// plain decimal notation. Format is idempotent over its own output.
func Format(v float64) string {
	if v == 0 {
		return "0" // also folds negative zero
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	// Round through the decimal representation so that 0.1+0.2 becomes 0.3
	// rather than the nearest binary neighbour of a scaled product.
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', ResultPrecision, 64), 64)
	if err != nil {
		return strconv.FormatFloat(v, 'f', ResultPrecision, 64)
	}
	if rounded == 0 {
		return "0"
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
