package ops

import (
	"fmt"
	"math"
)

// Sin: d(sin x) = xp * cos(x).
var Sin = unary("sin", math.Sin, func(x, xp float64) float64 { return xp * math.Cos(x) })

// Cos: d(cos x) = -xp * sin(x).
var Cos = unary("cos", math.Cos, func(x, xp float64) float64 { return -xp * math.Sin(x) })

// Tan: d(tan x) = xp / cos²(x).
var Tan = unary("tan", math.Tan, func(x, xp float64) float64 {
	c := math.Cos(x)
	return xp / (c * c)
})

// Arcsin: d(asin x) = xp / sqrt(1 - x²), defined on [-1, 1] with the
// derivative undefined at the end points.
var Arcsin = withUnitInterval(unary("arcsin", math.Asin, func(x, xp float64) float64 {
	return xp / math.Sqrt(1-x*x)
}))

// Arccos: d(acos x) = -xp / sqrt(1 - x²).
var Arccos = withUnitInterval(unary("arccos", math.Acos, func(x, xp float64) float64 {
	return -xp / math.Sqrt(1-x*x)
}))

// Arctan: d(atan x) = xp / (1 + x²).
var Arctan = unary("arctan", math.Atan, func(x, xp float64) float64 { return xp / (1 + x*x) })

func withUnitInterval(op *Op) *Op {
	op.Domain = func(a []float64) error {
		if a[0] < -1 || a[0] > 1 {
			return fmt.Errorf("%w: %s(%g) needs an argument in [-1, 1]", ErrDomain, op.Name, a[0])
		}
		return nil
	}
	op.TangentDomain = func(a, s []float64) error {
		if s[0] != 0 && math.Abs(a[0]) == 1 {
			return fmt.Errorf("%w: %s at %g", ErrDerivativeUndefined, op.Name, a[0])
		}
		return nil
	}
	return op
}
