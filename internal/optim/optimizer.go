// Package optim minimizes scalar expressions with first-order methods fed
// by forward-mode gradients.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//   - Minimize: the evaluate/step loop
//
// Example usage:
//
//	x, y := forward.Var("x"), forward.Var("y")
//	f := forward.Add(forward.Pow(forward.Sub(x, 1), 2), forward.Pow(y, 2))
//
//	res, err := optim.Minimize(f, forward.Binding{"x": 5, "y": -3},
//	    optim.NewAdam(optim.AdamConfig{LR: 0.1}),
//	    optim.MinimizeConfig{MaxSteps: 500})
package optim

import (
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/fwdiff/internal/forward"
)

// ErrNotConverged is returned when MaxSteps ran out before the gradient
// norm fell below the tolerance. The last point is still returned.
var ErrNotConverged = errors.New("fwdiff: minimization did not converge")

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to the parameters
//   - Reset: Forget accumulated state before a new run
//   - GetLR: Get current learning rate (for monitoring)
type Optimizer interface {
	// Step moves params against grads in place. Parameters without a
	// gradient entry are left alone.
	Step(params forward.Binding, grads map[string]float64)

	// Reset clears momentum and moment estimates.
	Reset()

	// GetLR returns the current learning rate.
	GetLR() float64
}

// MinimizeConfig bounds a Minimize run.
type MinimizeConfig struct {
	MaxSteps  int      // Step budget (default: 1000)
	Tolerance float64  // Stop once the gradient's Euclidean norm is below this (default: 1e-8)
	Params    []string // Variables to optimize (default: every variable of the expression)
}

// MinimizeResult is the outcome of a Minimize run.
type MinimizeResult struct {
	Point  forward.Binding // Final parameter values merged over the start binding
	Result forward.Result  // Value and gradient at Point
	Steps  int             // Optimizer steps taken
}

// Minimize runs opt on f from start until the gradient vanishes or the step
// budget is spent. Variables not listed in cfg.Params keep their start
// values. Evaluation errors abort the run and are returned as is; running
// out of steps returns ErrNotConverged alongside the last result.
func Minimize(f *forward.Node, start forward.Binding, opt Optimizer, cfg MinimizeConfig, opts ...forward.Option) (MinimizeResult, error) {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 1000
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1e-8
	}
	params := cfg.Params
	if params == nil {
		params = forward.Variables(f)
	}

	wrt := make([]*forward.Node, len(params))
	for i, name := range params {
		if name == "" {
			return MinimizeResult{}, &forward.EvalError{Vars: []string{"empty parameter name"}, Err: forward.ErrInvalidWrt}
		}
		wrt[i] = forward.Var(name)
	}
	opts = append(opts[:len(opts):len(opts)], forward.WithRespectTo(wrt...))

	point := make(forward.Binding, len(start))
	for k, v := range start {
		point[k] = v
	}

	opt.Reset()
	out := MinimizeResult{Point: point}
	for {
		res, err := forward.Evaluate(f, point, opts...)
		if err != nil {
			return out, fmt.Errorf("step %d: %w", out.Steps, err)
		}
		out.Result = res

		if norm(res.Derivative) < cfg.Tolerance {
			return out, nil
		}
		if out.Steps == cfg.MaxSteps {
			return out, fmt.Errorf("%w after %d steps (|grad| = %g)", ErrNotConverged, out.Steps, norm(res.Derivative))
		}
		opt.Step(point, res.Derivative)
		out.Steps++
	}
}

func norm(grad map[string]float64) float64 {
	var sum float64
	for _, g := range grad {
		sum += g * g
	}
	return math.Sqrt(sum)
}
