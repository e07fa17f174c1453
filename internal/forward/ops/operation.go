// Package ops defines the operator and elementary-function catalog used by
// forward-mode automatic differentiation.
//
// Each operation is a table entry (Op) holding:
//   - Value: the primary function applied to operand values
//   - Tangent: the chain rule for one tracked direction, given operand values
//     and the operands' partial derivatives in that direction ("seeds")
//   - Domain: an optional guard over operand values
//   - TangentDomain: an optional guard over operand values and seeds
//
// Supported operations:
//   - add, sub, mul, div, pow, neg: arithmetic
//   - lt, gt, le, ge: comparisons (1.0/0.0 valued, zero derivative)
//   - sin, cos, tan, arcsin, arccos, arctan: trigonometric family
//   - sinh, cosh, tanh, logistic: hyperbolic family
//   - exp, log, sqrt: exponential family
//
// Guards are evaluated against concrete values, so they fire only for the
// binding actually supplied to an evaluation.
package ops

import "fmt"

// Arity values accepted by Register.
const (
	Unary  = 1
	Binary = 2
)

// Op is one registry entry.
type Op struct {
	// Name is the registry key, also used in diagnostics and dumps.
	Name string

	// Arity is the number of operands (Unary or Binary).
	Arity int

	// Value computes the primary result from operand values.
	Value func(args []float64) float64

	// Tangent computes d(op)/d(v) for one tracked variable v, where
	// seeds[i] = d(args[i])/d(v). The engine skips directions whose seeds
	// are all zero, so neither Tangent nor TangentDomain sees them.
	Tangent func(args, seeds []float64) float64

	// Domain rejects operand values outside the real domain (optional).
	Domain func(args []float64) error

	// TangentDomain rejects points where the value is real but the
	// derivative in the seeded direction is not (optional).
	TangentDomain func(args, seeds []float64) error

	// Symbol is the infix spelling used by dumps ("+", "<", ...).
	// Empty for function-style operations.
	Symbol string
}

// String returns the operation name.
func (op *Op) String() string {
	return op.Name
}

// Check runs the value guard.
func (op *Op) Check(args []float64) error {
	if op.Domain == nil {
		return nil
	}
	return op.Domain(args)
}

// CheckTangent runs the derivative guard for one direction.
func (op *Op) CheckTangent(args, seeds []float64) error {
	if op.TangentDomain == nil {
		return nil
	}
	return op.TangentDomain(args, seeds)
}

func (op *Op) validate() error {
	switch {
	case op.Name == "":
		return fmt.Errorf("ops: operation has no name")
	case op.Arity != Unary && op.Arity != Binary:
		return fmt.Errorf("ops: %s: arity %d not supported", op.Name, op.Arity)
	case op.Value == nil || op.Tangent == nil:
		return fmt.Errorf("ops: %s: value and tangent functions are required", op.Name)
	}
	return nil
}

func unary(name string, value func(x float64) float64, tangent func(x, xp float64) float64) *Op {
	return &Op{
		Name:    name,
		Arity:   Unary,
		Value:   func(a []float64) float64 { return value(a[0]) },
		Tangent: func(a, s []float64) float64 { return tangent(a[0], s[0]) },
	}
}

func binary(name, symbol string, value func(x, y float64) float64, tangent func(x, y, xp, yp float64) float64) *Op {
	return &Op{
		Name:    name,
		Symbol:  symbol,
		Arity:   Binary,
		Value:   func(a []float64) float64 { return value(a[0], a[1]) },
		Tangent: func(a, s []float64) float64 { return tangent(a[0], a[1], s[0], s[1]) },
	}
}
