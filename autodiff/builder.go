// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff

import (
	"github.com/born-ml/fwdiff/internal/forward"
	"github.com/born-ml/fwdiff/internal/forward/ops"
)

// Var creates a variable node. Distinct calls give distinct nodes even for
// the same name; they are bound by name at evaluation. An empty name panics
// with an error wrapping ErrInvalidName.
func Var(name string) *Node { return forward.Var(name) }

// Const creates a constant node from any Go number.
func Const(v any) (*Node, error) { return forward.Const(v) }

// MustConst is Const that panics on an invalid literal.
func MustConst(v any) *Node { return forward.MustConst(v) }

// Lift returns v unchanged if it is a node and a constant otherwise.
func Lift(v any) (*Node, error) { return forward.Lift(v) }

// Call applies the default registry's operation called name.
func Call(name string, args ...any) (*Node, error) { return forward.Call(name, args...) }

// CallIn is Call against a custom registry.
func CallIn(r *Registry, name string, args ...any) (*Node, error) {
	return forward.CallIn(r, name, args...)
}

// Apply builds an operation node. The operand count is checked when the
// graph is evaluated.
func Apply(op *Op, args ...any) *Node { return forward.Apply(op, args...) }

// DefaultRegistry returns the registry holding the built-in operations.
func DefaultRegistry() *Registry { return ops.Default() }

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return ops.NewRegistry() }

// Operands may be nodes or Go numbers. An invalid number panics with an
// error wrapping ErrInvalidConstant.

func Add(a, b any) *Node { return forward.Add(a, b) }
func Sub(a, b any) *Node { return forward.Sub(a, b) }
func Mul(a, b any) *Node { return forward.Mul(a, b) }
func Div(a, b any) *Node { return forward.Div(a, b) }
func Pow(a, b any) *Node { return forward.Pow(a, b) }
func Neg(a any) *Node    { return forward.Neg(a) }
func Lt(a, b any) *Node  { return forward.Lt(a, b) }
func Gt(a, b any) *Node  { return forward.Gt(a, b) }
func Le(a, b any) *Node  { return forward.Le(a, b) }
func Ge(a, b any) *Node  { return forward.Ge(a, b) }

func Sin(a any) *Node      { return forward.Sin(a) }
func Cos(a any) *Node      { return forward.Cos(a) }
func Tan(a any) *Node      { return forward.Tan(a) }
func Arcsin(a any) *Node   { return forward.Arcsin(a) }
func Arccos(a any) *Node   { return forward.Arccos(a) }
func Arctan(a any) *Node   { return forward.Arctan(a) }
func Sinh(a any) *Node     { return forward.Sinh(a) }
func Cosh(a any) *Node     { return forward.Cosh(a) }
func Tanh(a any) *Node     { return forward.Tanh(a) }
func Logistic(a any) *Node { return forward.Logistic(a) }
func Exp(a any) *Node      { return forward.Exp(a) }
func Log(a any) *Node      { return forward.Log(a) }
func Sqrt(a any) *Node     { return forward.Sqrt(a) }
