package runtime

import (
	"errors"
	"math"

	"github.com/deicod/goliquid/values"
)

var errDivisionByZero = errors.New("divided by 0")

// isIntegral reports whether f has no fractional part.
func isIntegral(f float64) bool {
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}

// divide follows the integer division of the template language: when both
// operands are integral the quotient is floored.
func divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, errDivisionByZero
	}
	if isIntegral(a) && isIntegral(b) {
		return math.Floor(a / b), nil
	}
	return a / b, nil
}

// modulo returns a remainder carrying the sign of the divisor.
func modulo(a, b float64) (float64, error) {
	if b == 0 {
		return 0, errDivisionByZero
	}
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r, nil
}

// roundTo rounds half away from zero at the given number of decimal places.
func roundTo(f float64, places int) float64 {
	if places <= 0 {
		return math.Round(f)
	}
	scale := math.Pow10(places)
	return math.Round(f*scale) / scale
}

func numberArg(args []values.Value, i int) float64 {
	return values.ToNumber(arg(args, i))
}
