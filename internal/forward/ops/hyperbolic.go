package ops

import "math"

// Sinh: d(sinh x) = xp * cosh(x).
var Sinh = unary("sinh", math.Sinh, func(x, xp float64) float64 { return xp * math.Cosh(x) })

// Cosh: d(cosh x) = xp * sinh(x).
var Cosh = unary("cosh", math.Cosh, func(x, xp float64) float64 { return xp * math.Sinh(x) })

// Tanh: d(tanh x) = xp * (1 - tanh²(x)).
var Tanh = unary("tanh", math.Tanh, func(x, xp float64) float64 {
	t := math.Tanh(x)
	return xp * (1 - t*t)
})

// Logistic is the standard sigmoid 1 / (1 + e^-x).
// d(σ(x)) = xp * σ(x) * (1 - σ(x)).
var Logistic = unary("logistic", logistic, func(x, xp float64) float64 {
	s := logistic(x)
	return xp * s * (1 - s)
})

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
