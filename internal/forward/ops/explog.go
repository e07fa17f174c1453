package ops

import (
	"fmt"
	"math"
)

// Exp: d(e^x) = xp * e^x.
var Exp = unary("exp", math.Exp, func(x, xp float64) float64 { return xp * math.Exp(x) })

// Log is the natural logarithm: d(ln x) = xp / x.
var Log = positive(unary("log", math.Log, func(x, xp float64) float64 { return xp / x }))

// Sqrt: d(sqrt x) = xp / (2 sqrt(x)).
//
// The guard rejects x = 0 as well: the value exists there but every
// non-trivial direction has an infinite slope.
var Sqrt = positive(unary("sqrt", math.Sqrt, func(x, xp float64) float64 { return xp / (2 * math.Sqrt(x)) }))

func positive(op *Op) *Op {
	op.Domain = func(a []float64) error {
		if a[0] <= 0 {
			return fmt.Errorf("%w: %s(%g) needs a positive argument", ErrDomain, op.Name, a[0])
		}
		return nil
	}
	return op
}
