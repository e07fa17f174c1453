// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim minimizes scalar expressions using the gradients produced by
// forward-mode evaluation.
//
// # Overview
//
// This package contains:
//   - SGD: Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//   - Minimize: the evaluate/step loop
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/fwdiff/autodiff"
//	    "github.com/born-ml/fwdiff/optim"
//	)
//
//	func main() {
//	    x, y := autodiff.Var("x"), autodiff.Var("y")
//	    f := autodiff.Add(autodiff.Pow(autodiff.Sub(x, 1), 2), autodiff.Pow(y, 2))
//
//	    res, err := optim.Minimize(f, autodiff.Binding{"x": 5, "y": -3},
//	        optim.NewAdam(optim.AdamConfig{LR: 0.1}),
//	        optim.MinimizeConfig{MaxSteps: 500})
//	    if err != nil && !errors.Is(err, optim.ErrNotConverged) {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res.Point, res.Result.Value)
//	}
//
// # Optimizers
//
// SGD:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
//
// Adam:
//
//	optimizer := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	    Eps:   1e-8,
//	})
//
// Optimizers keep per-variable state keyed by name. Minimize calls Reset
// before the first step, so one optimizer can serve several runs in turn.
package optim
