package forward_test

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/fwdiff/internal/forward"
	"github.com/born-ml/fwdiff/internal/forward/ops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type meters float64

func TestConst_AcceptsNumericKinds(t *testing.T) {
	for _, v := range []any{3, int8(3), int64(3), uint(3), uint16(3), float32(3), 3.0, meters(3)} {
		c, err := forward.Const(v)
		require.NoError(t, err, "%T", v)
		assert.Equal(t, 3.0, c.Literal(), "%T", v)
	}
}

func TestConst_RejectsNonNumeric(t *testing.T) {
	for _, v := range []any{"abc", true, nil, []float64{1}, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := forward.Const(v)
		assert.ErrorIs(t, err, forward.ErrInvalidConstant, "%#v", v)
	}
	assert.Panics(t, func() { forward.MustConst("abc") })
}

func TestLift(t *testing.T) {
	x := forward.Var("x")

	n, err := forward.Lift(x)
	require.NoError(t, err)
	assert.Same(t, x, n)

	n, err = forward.Lift(4)
	require.NoError(t, err)
	assert.Equal(t, forward.KindConstant, n.Kind())

	var nilNode *forward.Node
	_, err = forward.Lift(nilNode)
	assert.ErrorIs(t, err, forward.ErrInvalidConstant)
}

func TestOperators_InvalidLiteralFailsConstruction(t *testing.T) {
	x := forward.Var("x")

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected construction to panic")
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, forward.ErrInvalidConstant))
	}()
	x.Add("three")
}

func TestOperators_ReflectedForms(t *testing.T) {
	x := forward.Var("x")
	b := forward.Binding{"x": 2}

	res, err := x.RSub(3).Evaluate(b)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Value)
	assert.Equal(t, -1.0, res.Derivative["x"])

	res, err = x.RDiv(3).Evaluate(b)
	require.NoError(t, err)
	assert.Equal(t, 1.5, res.Value)
	assert.Equal(t, -0.75, res.Derivative["x"])

	res, err = x.RPow(2).Evaluate(b)
	require.NoError(t, err)
	assert.Equal(t, 4.0, res.Value)
	assert.InDelta(t, 4*math.Ln2, res.Derivative["x"], 1e-12)
}

func TestCall(t *testing.T) {
	x := forward.Var("x")

	f, err := forward.Call("arctan", x)
	require.NoError(t, err)
	assert.Same(t, ops.Arctan, f.Op())

	_, err = forward.Call("erf", x)
	assert.ErrorIs(t, err, forward.ErrUnknownFunction)

	_, err = forward.Call("pow", x, "two")
	assert.ErrorIs(t, err, forward.ErrInvalidConstant)
}

func TestCall_ArityIsCheckedAtEvaluation(t *testing.T) {
	x := forward.Var("x")

	f, err := forward.Call("sin", x, 2)
	require.NoError(t, err, "wrong arity still builds")

	_, err = f.Evaluate(forward.Binding{"x": 1})
	require.ErrorIs(t, err, forward.ErrArity)

	var evalErr *forward.EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "sin", evalErr.Op)

	g, err := forward.Call("pow", x)
	require.NoError(t, err)
	_, err = forward.Add(g, 1).Evaluate(forward.Binding{"x": 1})
	assert.ErrorIs(t, err, forward.ErrArity, "nested arity errors are found too")
}

func TestCallIn_CustomRegistry(t *testing.T) {
	r := ops.NewRegistry()
	r.MustRegister(&ops.Op{
		Name:    "square",
		Arity:   ops.Unary,
		Value:   func(a []float64) float64 { return a[0] * a[0] },
		Tangent: func(a, s []float64) float64 { return 2 * a[0] * s[0] },
	})

	x := forward.Var("x")
	f, err := forward.CallIn(r, "square", forward.Add(x, 1))
	require.NoError(t, err)

	res, err := f.Evaluate(forward.Binding{"x": 2})
	require.NoError(t, err)
	assert.Equal(t, 9.0, res.Value)
	assert.Equal(t, 6.0, res.Derivative["x"])

	_, err = forward.CallIn(r, "sin", x)
	assert.ErrorIs(t, err, forward.ErrUnknownFunction)
}

func TestNeg_MatchesMulByMinusOne(t *testing.T) {
	x, y := forward.Var("x"), forward.Var("y")
	inner := forward.Sin(forward.Mul(x, y))

	for _, v := range []float64{-2, -0.3, 0, 1.7} {
		b := forward.Binding{"x": v, "y": 0.5}
		neg, err := forward.Neg(inner).Evaluate(b)
		require.NoError(t, err)
		mul, err := forward.Mul(-1, inner).Evaluate(b)
		require.NoError(t, err)
		assert.Equal(t, mul, neg)
	}
}

func TestVar_EmptyNamePanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.ErrorIs(t, err, forward.ErrInvalidName)
		assert.NotErrorIs(t, err, forward.ErrInvalidConstant)
	}()
	forward.Var("")
}
