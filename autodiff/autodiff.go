// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides forward-mode automatic differentiation of scalar
// expressions.
//
// Expressions are immutable graphs built from variables, constants and
// operations. Evaluating a graph at a point returns its value together with
// the exact partial derivative with respect to every variable, computed in a
// single pass with one tangent direction per variable.
//
// Example:
//
//	import "github.com/born-ml/fwdiff/autodiff"
//
//	func main() {
//	    x, y := autodiff.Var("x"), autodiff.Var("y")
//	    f := autodiff.Add(autodiff.Mul(x, y), autodiff.Sin(x))
//
//	    res, err := f.Evaluate(autodiff.Binding{"x": 0.5, "y": 2})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res.Value, res.Derivative["x"], res.Derivative["y"])
//	}
package autodiff

import (
	"io"
	"log/slog"

	"github.com/born-ml/fwdiff/internal/forward"
	"github.com/born-ml/fwdiff/internal/forward/ops"
	"github.com/born-ml/fwdiff/internal/hclexpr"
	"github.com/born-ml/fwdiff/internal/parallel"
	"github.com/born-ml/fwdiff/internal/render"
	"github.com/born-ml/fwdiff/internal/serialization"
	"gonum.org/v1/gonum/mat"
)

// Node is a vertex of an expression graph.
type Node = forward.Node

// Kind tells variables, constants and operations apart.
type Kind = forward.Kind

// Node kinds.
const (
	KindVariable  = forward.KindVariable
	KindConstant  = forward.KindConstant
	KindOperation = forward.KindOperation
)

// Binding maps variable names to the point of evaluation.
type Binding = forward.Binding

// Result is a value with its partial derivatives keyed by variable name.
type Result = forward.Result

// Option configures an evaluation call.
type Option = forward.Option

// EvalError carries the context of a failed evaluation.
type EvalError = forward.EvalError

// Snapshot is the per-node state of a finished evaluation, handed to plotters.
type Snapshot = forward.Snapshot

// NodeState is the value and partials of one node in a Snapshot.
type NodeState = forward.NodeState

// Stats summarizes one evaluation call.
type Stats = forward.Stats

// Plotter renders a successful evaluation.
type Plotter = forward.Plotter

// Recorder receives Stats for every evaluation call.
type Recorder = forward.Recorder

// Op describes a differentiable operation.
type Op = ops.Op

// Registry is a name-indexed set of operations.
type Registry = ops.Registry

// Operand counts for Op.Arity.
const (
	Unary  = ops.Unary
	Binary = ops.Binary
)

// Errors. Match them with errors.Is.
var (
	ErrInvalidConstant     = forward.ErrInvalidConstant
	ErrInvalidName         = forward.ErrInvalidName
	ErrUnboundVariable     = forward.ErrUnboundVariable
	ErrInvalidBinding      = forward.ErrInvalidBinding
	ErrInvalidWrt          = forward.ErrInvalidWrt
	ErrUnknownFunction     = forward.ErrUnknownFunction
	ErrNilExpression       = forward.ErrNilExpression
	ErrPlotMultiple        = forward.ErrPlotMultiple
	ErrNilPlotter          = forward.ErrNilPlotter
	ErrSyntax              = forward.ErrSyntax
	ErrArity               = forward.ErrArity
	ErrDomain              = forward.ErrDomain
	ErrComplexResult       = forward.ErrComplexResult
	ErrDerivativeUndefined = forward.ErrDerivativeUndefined
)

// ErrorKind returns a stable label for err's category, such as "domain".
func ErrorKind(err error) string {
	return forward.ErrorKind(err)
}

// Evaluate computes root's value and partial derivatives at b.
func Evaluate(root *Node, b Binding, opts ...Option) (Result, error) {
	return forward.Evaluate(root, b, opts...)
}

// EvaluateAll evaluates several expressions at the same point. Results are
// in input order; any failure fails the whole batch.
func EvaluateAll(roots []*Node, b Binding, opts ...Option) ([]Result, error) {
	return forward.EvaluateAll(roots, b, opts...)
}

// Jacobian evaluates roots and arranges their partials as a matrix with one
// row per expression and one column per returned variable name.
func Jacobian(roots []*Node, b Binding, opts ...Option) (*mat.Dense, []string, error) {
	return forward.Jacobian(roots, b, opts...)
}

// BindingFrom converts loosely typed values into a Binding.
func BindingFrom(values map[string]any) (Binding, error) {
	return forward.BindingFrom(values)
}

// WithRespectTo restricts the derivative map to the given variables.
func WithRespectTo(vars ...*Node) Option {
	return forward.WithRespectTo(vars...)
}

// WithPlot writes the evaluated graph to path once evaluation succeeds. The
// extension picks the format: .mmd (Mermaid), .md (Mermaid in a fenced
// block) or .dot/.gv (Graphviz).
func WithPlot(path string) Option {
	return forward.WithPlot(path, render.File{})
}

// WithPlotter is WithPlot with a custom renderer.
func WithPlotter(path string, p Plotter) Option {
	return forward.WithPlot(path, p)
}

// WithLogger sets the logger for evaluation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return forward.WithLogger(logger)
}

// WithRecorder attaches a statistics sink.
func WithRecorder(r Recorder) Option {
	return forward.WithRecorder(r)
}

// WithWorkers lets EvaluateAll use up to n goroutines.
func WithWorkers(n int) Option {
	cfg := parallel.DefaultConfig()
	cfg.NumWorkers = n
	cfg.Enabled = n > 1
	return forward.WithConcurrency(cfg)
}

// Variables returns the sorted names of the variables reachable from roots.
func Variables(roots ...*Node) []string {
	return forward.Variables(roots...)
}

// Walk calls fn once per distinct node reachable from roots, operands first.
func Walk(fn func(*Node), roots ...*Node) {
	forward.Walk(fn, roots...)
}

// Preorder writes an indented listing of root, parents before operands.
func Preorder(w io.Writer, root *Node) error {
	return forward.Preorder(w, root)
}

// Postorder writes an indented listing of root, operands before parents.
func Postorder(w io.Writer, root *Node) error {
	return forward.Postorder(w, root)
}

// Mermaid draws root as a Mermaid flowchart without values.
func Mermaid(root *Node) string {
	return render.Mermaid(root, nil)
}

// Parse reads an expression in HCL syntax, e.g. "sin(x) * pow(y, 2)".
func Parse(src string) (*Node, error) {
	return hclexpr.Parse(src)
}

// Job is a batch evaluation request loaded from an HCL file.
type Job = hclexpr.Job

// LoadJob reads a job file.
func LoadJob(path string) (*Job, error) {
	return hclexpr.LoadJob(path)
}

// Export writes the graphs under roots to w as a JSON document listing
// every distinct node once. It is meant for external tooling; graphs are
// not read back.
func Export(w io.Writer, roots ...*Node) error {
	return serialization.Write(w, roots...)
}
