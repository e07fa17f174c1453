package optim

import "github.com/born-ml/fwdiff/internal/forward"

// SGD implements Gradient Descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Momentum helps accelerate descent in relevant directions and dampens oscillations.
//
// Example:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	lr         float64
	momentum   float64
	velocities map[string]float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[string]float64),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step(params forward.Binding, grads map[string]float64) {
	for name, g := range grads {
		if _, ok := params[name]; !ok {
			continue
		}
		if s.momentum != 0 {
			g = s.momentum*s.velocities[name] + g
			s.velocities[name] = g
		}
		params[name] -= s.lr * g
	}
}

// Reset clears the velocities.
func (s *SGD) Reset() {
	clear(s.velocities)
}

// GetLR returns the learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}
