package ops

// Comparisons yield 1.0 or 0.0 and are locally constant, so their tangent is
// zero in every direction.

var (
	Lt = binary("lt", "<", compare(func(x, y float64) bool { return x < y }), zeroTangent)
	Gt = binary("gt", ">", compare(func(x, y float64) bool { return x > y }), zeroTangent)
	Le = binary("le", "<=", compare(func(x, y float64) bool { return x <= y }), zeroTangent)
	Ge = binary("ge", ">=", compare(func(x, y float64) bool { return x >= y }), zeroTangent)
)

func compare(pred func(x, y float64) bool) func(x, y float64) float64 {
	return func(x, y float64) float64 {
		if pred(x, y) {
			return 1
		}
		return 0
	}
}

func zeroTangent(_, _, _, _ float64) float64 { return 0 }
