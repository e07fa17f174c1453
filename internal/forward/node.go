// Package forward implements forward-mode automatic differentiation over
// scalar expression graphs.
//
// Architecture:
//   - Node: immutable DAG vertex (Variable, Constant or Operation). Operators
//     always build a new parent, so sub-expressions can be shared freely.
//   - ops.Registry: table of operations (value, tangent, domain guards)
//   - Evaluate: one postorder pass computing the value and, per tracked
//     variable, the tangent (partial derivative) of every distinct node
//   - EvaluateAll: batch fan-out sharing one binding and one wrt set
//
// Usage:
//
//	x, y := forward.Var("x"), forward.Var("y")
//	f := forward.Exp(forward.Add(forward.Pow(x, y), 3.5))
//	res, err := f.Evaluate(forward.Binding{"x": 1, "y": 1})
//	// res.Value = e^4.5, res.Derivative = {"x": e^4.5, "y": 0}
//
// Evaluation state lives in a call-local table keyed by node identity, never
// on the nodes, so a graph may be evaluated from several goroutines at once.
package forward

import (
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/born-ml/fwdiff/internal/forward/ops"
)

// Kind tags the three node variants.
type Kind uint8

// Node kinds.
const (
	KindVariable Kind = iota
	KindConstant
	KindOperation
)

// String returns the kind label used in dumps.
func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "var"
	case KindConstant:
		return "const"
	case KindOperation:
		return "op"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

var lastID atomic.Uint64

// Node is a vertex of an expression graph.
//
// A Node is read-only once built. Two nodes are equal only if they are the
// same pointer; structurally identical expressions built twice are distinct.
type Node struct {
	id       uint64
	kind     Kind
	name     string  // KindVariable
	literal  float64 // KindConstant
	op       *ops.Op // KindOperation
	children []*Node // KindOperation
}

func newNode(kind Kind) *Node {
	return &Node{id: lastID.Add(1), kind: kind}
}

// ID returns a process-unique identifier, increasing in creation order.
func (n *Node) ID() uint64 { return n.id }

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Name returns the variable name (empty unless KindVariable).
func (n *Node) Name() string { return n.name }

// Literal returns the constant value (zero unless KindConstant).
func (n *Node) Literal() float64 { return n.literal }

// Op returns the operation (nil unless KindOperation).
func (n *Node) Op() *ops.Op { return n.op }

// Children returns a copy of the operand list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// String renders the expression in infix form, fully parenthesized.
func (n *Node) String() string {
	var sb strings.Builder
	n.format(&sb)
	return sb.String()
}

func (n *Node) format(sb *strings.Builder) {
	switch n.kind {
	case KindVariable:
		sb.WriteString(n.name)
	case KindConstant:
		sb.WriteString(formatFloat(n.literal))
	case KindOperation:
		if n.op.Symbol != "" && len(n.children) == 2 {
			sb.WriteByte('(')
			n.children[0].format(sb)
			sb.WriteString(" " + n.op.Symbol + " ")
			n.children[1].format(sb)
			sb.WriteByte(')')
			return
		}
		if n.op.Symbol != "" && len(n.children) == 1 {
			sb.WriteString(n.op.Symbol)
			n.children[0].format(sb)
			return
		}
		sb.WriteString(n.op.Name)
		sb.WriteByte('(')
		for i, c := range n.children {
			if i > 0 {
				sb.WriteString(", ")
			}
			c.format(sb)
		}
		sb.WriteByte(')')
	}
}

// Label is the one-line description used by dumps and renderers.
func (n *Node) Label() string {
	switch n.kind {
	case KindVariable:
		return "var " + n.name
	case KindConstant:
		return "const " + formatFloat(n.literal)
	default:
		return "op " + n.op.Name
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Walk calls fn once for every distinct node reachable from the roots, in
// postorder (children before parents, left to right).
func Walk(fn func(*Node), roots ...*Node) {
	seen := make(map[*Node]struct{})
	var visit func(*Node)
	visit = func(n *Node) {
		if n == nil {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		for _, c := range n.children {
			visit(c)
		}
		fn(n)
	}
	for _, r := range roots {
		visit(r)
	}
}

// Variables returns the sorted distinct variable names reachable from the
// roots.
func Variables(roots ...*Node) []string {
	set := make(map[string]struct{})
	Walk(func(n *Node) {
		if n.kind == KindVariable {
			set[n.name] = struct{}{}
		}
	}, roots...)
	return sortedKeys(set)
}

// Size returns the number of distinct nodes reachable from the roots.
func Size(roots ...*Node) int {
	count := 0
	Walk(func(*Node) { count++ }, roots...)
	return count
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
