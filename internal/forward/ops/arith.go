package ops

import "fmt"

// Add: d(x+y) = xp + yp.
var Add = binary("add", "+",
	func(x, y float64) float64 { return x + y },
	func(_, _, xp, yp float64) float64 { return xp + yp },
)

// Sub: d(x-y) = xp - yp.
var Sub = binary("sub", "-",
	func(x, y float64) float64 { return x - y },
	func(_, _, xp, yp float64) float64 { return xp - yp },
)

// Mul: d(x*y) = x*yp + y*xp.
var Mul = binary("mul", "*",
	func(x, y float64) float64 { return x * y },
	func(x, y, xp, yp float64) float64 { return x*yp + y*xp },
)

// Div: d(x/y) = (y*xp - x*yp) / y².
var Div = func() *Op {
	op := binary("div", "/",
		func(x, y float64) float64 { return x / y },
		func(x, y, xp, yp float64) float64 { return (y*xp - x*yp) / (y * y) },
	)
	op.Domain = func(a []float64) error {
		if a[1] == 0 {
			return fmt.Errorf("%w: division by zero", ErrDomain)
		}
		return nil
	}
	return op
}()

// Neg is unary minus. It must agree with mul(-1, x): d(-x) = -xp.
var Neg = func() *Op {
	op := unary("neg",
		func(x float64) float64 { return -x },
		func(_, xp float64) float64 { return -xp },
	)
	op.Symbol = "-"
	return op
}()
