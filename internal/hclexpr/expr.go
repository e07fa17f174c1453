// Package hclexpr reads expressions and evaluation jobs written in HCL.
//
// The expression language is the arithmetic subset of HCL native syntax:
// numbers, bare variable names, the operators + - * / < > <= >=, unary
// minus, parentheses and calls to registered functions. There is no power
// operator; write pow(x, 2).
//
//	f = sin(x) * pow(y, 2) + 1
package hclexpr

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/born-ml/fwdiff/internal/forward"
	"github.com/born-ml/fwdiff/internal/forward/ops"
)

// Scope resolves names while lowering. Every occurrence of a name maps to
// the same variable node, so expressions parsed in one Scope share their
// variables.
type Scope struct {
	registry *ops.Registry
	vars     map[string]*forward.Node
}

// NewScope returns a Scope calling functions from r, or from the default
// registry when r is nil.
func NewScope(r *ops.Registry) *Scope {
	if r == nil {
		r = ops.Default()
	}
	return &Scope{registry: r, vars: make(map[string]*forward.Node)}
}

// Var returns the variable node for name, creating it on first use.
func (s *Scope) Var(name string) *forward.Node {
	if v, ok := s.vars[name]; ok {
		return v
	}
	v := forward.Var(name)
	s.vars[name] = v
	return v
}

// Wrt resolves names to the scope's variable nodes for WithRespectTo. An
// empty name cannot occur in any expression and fails with ErrInvalidWrt.
func (s *Scope) Wrt(names []string) ([]*forward.Node, error) {
	nodes := make([]*forward.Node, len(names))
	for i, name := range names {
		if name == "" {
			return nil, &forward.EvalError{Vars: []string{fmt.Sprintf("#%d is empty", i)}, Err: forward.ErrInvalidWrt}
		}
		nodes[i] = s.Var(name)
	}
	return nodes, nil
}

// Lookup returns the variable node for name if an expression used it.
func (s *Scope) Lookup(name string) (*forward.Node, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Parse lowers the HCL expression in src to a graph.
func (s *Scope) Parse(src string) (*forward.Node, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<expr>", hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s", forward.ErrSyntax, diags.Error())
	}
	return s.Lower(expr)
}

// Parse lowers src in a fresh Scope using the default registry.
func Parse(src string) (*forward.Node, error) {
	return NewScope(nil).Parse(src)
}

// Lower converts an already parsed expression.
func (s *Scope) Lower(expr hcl.Expression) (*forward.Node, error) {
	switch e := expr.(type) {
	case *hclsyntax.ParenthesesExpr:
		return s.Lower(e.Expression)

	case *hclsyntax.ScopeTraversalExpr:
		if len(e.Traversal) != 1 {
			return nil, unsupported("attribute or index access", e)
		}
		return s.Var(e.Traversal.RootName()), nil

	case *hclsyntax.LiteralValueExpr:
		v, err := number(e.Val)
		if err != nil {
			return nil, fmt.Errorf("%w at %s", err, e.SrcRange)
		}
		return forward.Const(v)

	case *hclsyntax.TemplateExpr:
		return nil, fmt.Errorf("%w: string at %s", forward.ErrInvalidConstant, e.SrcRange)

	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			return nil, unsupported("operator !", e)
		}
		if lit, ok := e.Val.(*hclsyntax.LiteralValueExpr); ok && lit.Val.Type() == cty.Number {
			v, err := number(lit.Val)
			if err != nil {
				return nil, err
			}
			return forward.Const(-v)
		}
		operand, err := s.Lower(e.Val)
		if err != nil {
			return nil, err
		}
		return forward.Neg(operand), nil

	case *hclsyntax.BinaryOpExpr:
		build, ok := binaryOps[e.Op]
		if !ok {
			return nil, unsupported("operator", e)
		}
		lhs, err := s.Lower(e.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := s.Lower(e.RHS)
		if err != nil {
			return nil, err
		}
		return build(lhs, rhs), nil

	case *hclsyntax.FunctionCallExpr:
		if e.ExpandFinal {
			return nil, unsupported("argument expansion", e)
		}
		args := make([]any, len(e.Args))
		for i, a := range e.Args {
			n, err := s.Lower(a)
			if err != nil {
				return nil, err
			}
			args[i] = n
		}
		n, err := forward.CallIn(s.registry, e.Name, args...)
		if err != nil {
			return nil, fmt.Errorf("%w at %s", err, e.NameRange)
		}
		return n, nil

	default:
		return nil, unsupported(fmt.Sprintf("%T", expr), expr)
	}
}

var binaryOps = map[*hclsyntax.Operation]func(a, b any) *forward.Node{
	hclsyntax.OpAdd:                forward.Add,
	hclsyntax.OpSubtract:           forward.Sub,
	hclsyntax.OpMultiply:           forward.Mul,
	hclsyntax.OpDivide:             forward.Div,
	hclsyntax.OpLessThan:           forward.Lt,
	hclsyntax.OpGreaterThan:        forward.Gt,
	hclsyntax.OpLessThanOrEqual:    forward.Le,
	hclsyntax.OpGreaterThanOrEqual: forward.Ge,
}

func number(v cty.Value) (float64, error) {
	if v.IsNull() || v.Type() != cty.Number {
		return 0, fmt.Errorf("%w: %s literal", forward.ErrInvalidConstant, v.Type().FriendlyName())
	}
	var f float64
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return 0, fmt.Errorf("%w: %v", forward.ErrInvalidConstant, err)
	}
	return f, nil
}

func unsupported(what string, expr hcl.Expression) error {
	return fmt.Errorf("%w: unsupported %s at %s", forward.ErrSyntax, what, expr.Range())
}
