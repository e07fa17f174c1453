// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/fwdiff/autodiff"
	"github.com/born-ml/fwdiff/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// ErrNotConverged is returned by Minimize when the step budget ran out.
var ErrNotConverged = optim.ErrNotConverged

// SGD (Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	return optim.NewSGD(config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
func NewAdam(config AdamConfig) *Adam {
	return optim.NewAdam(config)
}

// Minimization

// MinimizeConfig bounds a Minimize run.
type MinimizeConfig = optim.MinimizeConfig

// MinimizeResult is the final point, value and gradient of a run.
type MinimizeResult = optim.MinimizeResult

// Minimize follows the gradient of f from start with opt.
//
// Example:
//
//	x := autodiff.Var("x")
//	res, err := optim.Minimize(autodiff.Pow(autodiff.Sub(x, 3), 2),
//	    autodiff.Binding{"x": 0},
//	    optim.NewSGD(optim.SGDConfig{LR: 0.25}),
//	    optim.MinimizeConfig{})
func Minimize(f *autodiff.Node, start autodiff.Binding, opt Optimizer, cfg MinimizeConfig, opts ...autodiff.Option) (MinimizeResult, error) {
	return optim.Minimize(f, start, opt, cfg, opts...)
}
