package forward

import (
	"github.com/born-ml/fwdiff/internal/parallel"
	"gonum.org/v1/gonum/mat"
)

// EvaluateAll evaluates several expressions against one binding.
//
// The binding and wrt are validated once against the union of the
// expressions' variables, so an unbound variable anywhere fails the whole
// batch, and a wrt variable missing from one expression simply has a zero
// partial there. Without WithRespectTo each result covers its own
// expression's variables, exactly as Evaluate would.
//
// Results are returned in input order. WithPlot is rejected with
// ErrPlotMultiple when more than one expression is given.
func EvaluateAll(roots []*Node, b Binding, opts ...Option) ([]Result, error) {
	if len(roots) == 0 {
		return []Result{}, nil
	}
	results, _, err := run(roots, b, newConfig(opts))
	return results, err
}

func forEach(n int, cfg *config, fn func(i int) error) error {
	return parallel.For(n, fn, cfg.parallel)
}

// Jacobian evaluates the roots and arranges their partial derivatives as a
// matrix: row i belongs to roots[i], column j to the j-th returned name.
//
// Columns follow the WithRespectTo order when given, and the sorted union of
// all variables otherwise.
func Jacobian(roots []*Node, b Binding, opts ...Option) (*mat.Dense, []string, error) {
	cfg := newConfig(opts)
	if len(roots) == 0 {
		return nil, nil, &EvalError{Err: ErrNilExpression}
	}

	results, p, err := run(roots, b, cfg)
	if err != nil {
		return nil, nil, err
	}

	cols := p.union
	if p.wrtSet {
		cols = p.wrt
	}

	if len(cols) == 0 {
		// No directions: gonum has no zero-width matrix, use the empty one.
		return &mat.Dense{}, cols, nil
	}
	jac := mat.NewDense(len(roots), len(cols), nil)
	for i, res := range results {
		for j, name := range cols {
			jac.Set(i, j, res.Derivative[name])
		}
	}
	return jac, cols, nil
}
