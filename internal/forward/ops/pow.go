package ops

import (
	"fmt"
	"math"
)

// Pow represents x**y.
//
// Tangent:
//
//	d(x^y) = y * x^(y-1) * xp + x^y * ln(x) * yp
//
// Each term is evaluated only when its seed is non-zero, so a constant
// exponent never asks for ln(x) and a constant base never asks for x^(y-1).
var Pow = &Op{
	Name:   "pow",
	Symbol: "**",
	Arity:  Binary,
	Value: func(a []float64) float64 {
		return math.Pow(a[0], a[1])
	},
	Tangent: func(a, s []float64) float64 {
		x, y, xp, yp := a[0], a[1], s[0], s[1]
		var d float64
		if xp != 0 && y != 0 {
			d += xp * y * math.Pow(x, y-1)
		}
		if yp != 0 && x != 0 {
			d += yp * math.Pow(x, y) * math.Log(x)
		}
		return d
	},
	Domain: func(a []float64) error {
		x, y := a[0], a[1]
		switch {
		case x < 0 && !isInteger(y):
			return fmt.Errorf("%w: %g ** %g", ErrComplexResult, x, y)
		case x == 0 && y < 0:
			return fmt.Errorf("%w: zero raised to negative power %g", ErrDomain, y)
		}
		return nil
	},
	TangentDomain: func(a, s []float64) error {
		x, y, xp, yp := a[0], a[1], s[0], s[1]
		if xp != 0 && x == 0 && y != 0 && y < 1 {
			return fmt.Errorf("%w: d/dx x**%g at x = 0", ErrDerivativeUndefined, y)
		}
		if yp != 0 {
			switch {
			case x < 0:
				return fmt.Errorf("%w: exponent derivative needs log of negative base %g", ErrDerivativeUndefined, x)
			case x == 0 && y <= 0:
				return fmt.Errorf("%w: exponent derivative at base 0 with exponent %g", ErrDerivativeUndefined, y)
			}
		}
		return nil
	},
}

func isInteger(v float64) bool {
	return v == math.Trunc(v) && !math.IsInf(v, 0)
}
