package forward

import (
	"fmt"

	"github.com/born-ml/fwdiff/internal/forward/ops"
)

// Var creates a variable node. Variables are identified by name when
// bound and when reported in derivative maps, so two Var nodes with the
// same name in one graph denote the same input.
//
// An empty name panics with an error wrapping ErrInvalidName.
func Var(name string) *Node {
	if name == "" {
		panic(fmt.Errorf("%w: name must not be empty", ErrInvalidName))
	}
	n := newNode(KindVariable)
	n.name = name
	return n
}

// Const creates a constant node from any Go integer or float value.
// Non-numeric and non-finite values fail with ErrInvalidConstant.
func Const(v any) (*Node, error) {
	f, ok := toFloat(v)
	if !ok {
		return nil, fmt.Errorf("%w: %v (%T) is not a number", ErrInvalidConstant, v, v)
	}
	if !isFinite(f) {
		return nil, fmt.Errorf("%w: %v is not finite", ErrInvalidConstant, f)
	}
	n := newNode(KindConstant)
	n.literal = f
	return n, nil
}

// MustConst is like Const but panics on error.
func MustConst(v any) *Node {
	n, err := Const(v)
	if err != nil {
		panic(err)
	}
	return n
}

// Lift returns v itself if it is a *Node and a new constant otherwise.
func Lift(v any) (*Node, error) {
	if n, ok := v.(*Node); ok {
		if n == nil {
			return nil, fmt.Errorf("%w: nil node operand", ErrInvalidConstant)
		}
		return n, nil
	}
	return Const(v)
}

// lift is Lift for the operator surface, where an operand that is neither
// a node nor a number is a construction failure.
func lift(v any) *Node {
	n, err := Lift(v)
	if err != nil {
		panic(err)
	}
	return n
}

// Apply builds an operation node from op and operands. The operand count
// is not checked here; evaluation rejects a mismatch with ErrArity.
// Apply panics if an operand cannot be lifted.
func Apply(op *ops.Op, args ...any) *Node {
	n := newNode(KindOperation)
	n.op = op
	n.children = make([]*Node, len(args))
	for i, a := range args {
		n.children[i] = lift(a)
	}
	return n
}

// Call builds an operation node for a function registered in the default
// registry.
func Call(name string, args ...any) (*Node, error) {
	return CallIn(ops.Default(), name, args...)
}

// CallIn is Call against a specific registry.
func CallIn(r *ops.Registry, name string, args ...any) (*Node, error) {
	op, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	children := make([]*Node, len(args))
	for i, a := range args {
		c, err := Lift(a)
		if err != nil {
			return nil, fmt.Errorf("%s argument %d: %w", name, i+1, err)
		}
		children[i] = c
	}
	n := newNode(KindOperation)
	n.op = op
	n.children = children
	return n, nil
}

// Arithmetic and comparison constructors. Operands may be nodes or numeric
// literals; see Apply for the failure mode.

func Add(a, b any) *Node { return Apply(ops.Add, a, b) }
func Sub(a, b any) *Node { return Apply(ops.Sub, a, b) }
func Mul(a, b any) *Node { return Apply(ops.Mul, a, b) }
func Div(a, b any) *Node { return Apply(ops.Div, a, b) }
func Pow(a, b any) *Node { return Apply(ops.Pow, a, b) }
func Neg(a any) *Node    { return Apply(ops.Neg, a) }
func Lt(a, b any) *Node  { return Apply(ops.Lt, a, b) }
func Gt(a, b any) *Node  { return Apply(ops.Gt, a, b) }
func Le(a, b any) *Node  { return Apply(ops.Le, a, b) }
func Ge(a, b any) *Node  { return Apply(ops.Ge, a, b) }

// Elementary functions.

func Sin(a any) *Node      { return Apply(ops.Sin, a) }
func Cos(a any) *Node      { return Apply(ops.Cos, a) }
func Tan(a any) *Node      { return Apply(ops.Tan, a) }
func Arcsin(a any) *Node   { return Apply(ops.Arcsin, a) }
func Arccos(a any) *Node   { return Apply(ops.Arccos, a) }
func Arctan(a any) *Node   { return Apply(ops.Arctan, a) }
func Sinh(a any) *Node     { return Apply(ops.Sinh, a) }
func Cosh(a any) *Node     { return Apply(ops.Cosh, a) }
func Tanh(a any) *Node     { return Apply(ops.Tanh, a) }
func Logistic(a any) *Node { return Apply(ops.Logistic, a) }
func Exp(a any) *Node      { return Apply(ops.Exp, a) }
func Log(a any) *Node      { return Apply(ops.Log, a) }
func Sqrt(a any) *Node     { return Apply(ops.Sqrt, a) }

// Operator sugar. The R-forms put the receiver on the right, so
// x.RSub(3) is 3 - x.

func (n *Node) Add(o any) *Node  { return Add(n, o) }
func (n *Node) Sub(o any) *Node  { return Sub(n, o) }
func (n *Node) Mul(o any) *Node  { return Mul(n, o) }
func (n *Node) Div(o any) *Node  { return Div(n, o) }
func (n *Node) Pow(o any) *Node  { return Pow(n, o) }
func (n *Node) RSub(o any) *Node { return Sub(o, n) }
func (n *Node) RDiv(o any) *Node { return Div(o, n) }
func (n *Node) RPow(o any) *Node { return Pow(o, n) }
func (n *Node) Neg() *Node       { return Neg(n) }
func (n *Node) Lt(o any) *Node   { return Lt(n, o) }
func (n *Node) Gt(o any) *Node   { return Gt(n, o) }
func (n *Node) Le(o any) *Node   { return Le(n, o) }
func (n *Node) Ge(o any) *Node   { return Ge(n, o) }
