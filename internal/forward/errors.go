package forward

import (
	"errors"
	"fmt"
	"strings"

	"github.com/born-ml/fwdiff/internal/forward/ops"
)

// Construction and evaluation errors. Match them with errors.Is.
var (
	ErrInvalidConstant = errors.New("fwdiff: invalid constant")
	ErrInvalidName     = errors.New("fwdiff: invalid variable name")
	ErrUnboundVariable = errors.New("fwdiff: unbound variable")
	ErrInvalidBinding  = errors.New("fwdiff: invalid binding value")
	ErrInvalidWrt      = errors.New("fwdiff: invalid wrt variable")
	ErrUnknownFunction = errors.New("fwdiff: unknown function")
	ErrNilExpression   = errors.New("fwdiff: nil expression")
	ErrPlotMultiple    = errors.New("fwdiff: plot needs exactly one expression")
	ErrNilPlotter      = errors.New("fwdiff: plot path given without a plotter")
	ErrSyntax          = errors.New("fwdiff: invalid expression syntax")

	ErrArity               = ops.ErrArity
	ErrDomain              = ops.ErrDomain
	ErrComplexResult       = ops.ErrComplexResult
	ErrDerivativeUndefined = ops.ErrDerivativeUndefined
)

// EvalError carries the context of a failed evaluation.
type EvalError struct {
	Op   string   // Operation that failed, empty for validation errors
	Expr string   // Offending sub-expression, if any
	Vars []string // Variables involved (missing names, rejected wrt entries)
	Err  error    // Wrapped sentinel, possibly with guard details
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Err.Error())
	if e.Op != "" {
		fmt.Fprintf(&sb, " (in %s", e.Op)
		if e.Expr != "" {
			fmt.Fprintf(&sb, " at %s", e.Expr)
		}
		sb.WriteByte(')')
	}
	if len(e.Vars) > 0 {
		fmt.Fprintf(&sb, ": %s", strings.Join(e.Vars, ", "))
	}
	return sb.String()
}

// Unwrap returns the wrapped error.
func (e *EvalError) Unwrap() error {
	return e.Err
}

var kinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidConstant, "invalid_constant"},
	{ErrInvalidName, "invalid_name"},
	{ErrUnboundVariable, "unbound_variable"},
	{ErrInvalidBinding, "invalid_binding"},
	{ErrInvalidWrt, "invalid_wrt"},
	{ErrUnknownFunction, "unknown_function"},
	{ErrNilExpression, "nil_expression"},
	{ErrPlotMultiple, "plot_multiple"},
	{ErrNilPlotter, "nil_plotter"},
	{ErrSyntax, "syntax"},
	{ErrArity, "arity"},
	{ErrDomain, "domain"},
	{ErrComplexResult, "complex_result"},
	{ErrDerivativeUndefined, "derivative_undefined"},
}

// ErrorKind returns a stable label for err's category: "" for nil,
// "internal" when err matches none of the package errors.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}
