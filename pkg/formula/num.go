// Package formula is the catalogue of sizing formulas. Every function is pure
// and total: non-numeric input reads as zero, degenerate denominators give a
// zero result, and no function returns NaN or Inf.
package formula

import (
	"math"
	"strconv"
	"strings"
)

// Precision is the number of decimals in every formatted result.
const Precision = 2

// Zero is the formatted zero result.
const Zero = "0.00"

// Num reads a scalar defensively. Strings are trimmed and parsed; nil,
// unparsable and non-finite values read as 0.
func Num(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	return finite(f)
}

// Fixed formats x with Precision decimals.
func Fixed(x float64) string {
	x = finite(x)
	out := strconv.FormatFloat(x, 'f', Precision, 64)
	if out == "-"+Zero {
		return Zero
	}
	return out
}

// Round returns x rounded to Precision decimals, the numeric twin of Fixed.
func Round(x float64) float64 {
	return Num(Fixed(x))
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// safeDiv returns a/b, or 0 when b is not positive.
func safeDiv(a, b float64) float64 {
	if !(b > 0) {
		return 0
	}
	return finite(a / b)
}

// MaxCount bounds every unit count. Larger ratios are degenerate input.
const MaxCount = math.MaxInt32

// ceilCount returns ceil(x) as a count, 0 for non-positive, non-finite or
// out-of-range x.
func ceilCount(x float64) int {
	x = finite(x)
	if x <= 0 || x > MaxCount {
		return 0
	}
	return int(math.Ceil(x))
}
