package hclexpr_test

import (
	"math"
	"testing"

	"github.com/born-ml/fwdiff/internal/forward"
	"github.com/born-ml/fwdiff/internal/forward/ops"
	"github.com/born-ml/fwdiff/internal/hclexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Evaluates(t *testing.T) {
	tests := []struct {
		src   string
		value float64
		dx    float64
	}{
		{"x", 3, 1},
		{"x + 1", 4, 1},
		{"2 * x - 1", 5, 2},
		{"x / 2", 1.5, 0.5},
		{"-x", -3, -1},
		{"(x + 1) * (x - 1)", 8, 6},
		{"pow(x, 2)", 9, 6},
		{"sin(x) * cos(x)", math.Sin(3) * math.Cos(3), math.Cos(6)},
		{"exp(log(x))", 3, 1},
		{"x > 2", 1, 0},
		{"x <= 2", 0, 0},
		{"logistic(0 * x)", 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, err := hclexpr.Parse(tt.src)
			require.NoError(t, err)

			r, err := f.Evaluate(forward.Binding{"x": 3})
			require.NoError(t, err)
			assert.InDelta(t, tt.value, r.Value, 1e-12)
			assert.InDelta(t, tt.dx, r.Derivative["x"], 1e-12)
		})
	}
}

func TestParse_NegativeLiteralIsConstant(t *testing.T) {
	f, err := hclexpr.Parse("-2")
	require.NoError(t, err)
	assert.Equal(t, forward.KindConstant, f.Kind())
	assert.Equal(t, -2.0, f.Literal())
}

func TestScope_SharesVariables(t *testing.T) {
	s := hclexpr.NewScope(nil)
	f, err := s.Parse("x * y")
	require.NoError(t, err)
	g, err := s.Parse("x + 1")
	require.NoError(t, err)

	x, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Same(t, x, f.Children()[0])
	assert.Same(t, x, g.Children()[0])

	_, ok = s.Lookup("z")
	assert.False(t, ok)

	// Variable nodes are shared, so a single wrt applies to both.
	results, err := forward.EvaluateAll([]*forward.Node{f, g}, forward.Binding{"x": 2, "y": 5}, forward.WithRespectTo(x))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"x": 5}, results[0].Derivative)
	assert.Equal(t, map[string]float64{"x": 1}, results[1].Derivative)
}

func TestScope_Wrt(t *testing.T) {
	s := hclexpr.NewScope(nil)
	f, err := s.Parse("x * y")
	require.NoError(t, err)

	wrt, err := s.Wrt([]string{"y", "z"})
	require.NoError(t, err)
	require.Len(t, wrt, 2)
	assert.Same(t, f.Children()[1], wrt[0])
	assert.Equal(t, "z", wrt[1].Name())

	empty, err := s.Wrt([]string{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = s.Wrt([]string{"x", ""})
	assert.ErrorIs(t, err, forward.ErrInvalidWrt)
}

func TestScope_CustomRegistry(t *testing.T) {
	r := ops.NewRegistry()
	r.MustRegister(&ops.Op{
		Name:    "double",
		Arity:   ops.Unary,
		Value:   func(a []float64) float64 { return 2 * a[0] },
		Tangent: func(_, s []float64) float64 { return 2 * s[0] },
	})

	f, err := hclexpr.NewScope(r).Parse("double(x)")
	require.NoError(t, err)
	res, err := f.Evaluate(forward.Binding{"x": 4})
	require.NoError(t, err)
	assert.Equal(t, 8.0, res.Value)
	assert.Equal(t, 2.0, res.Derivative["x"])

	_, err = hclexpr.NewScope(r).Parse("sin(x)")
	assert.ErrorIs(t, err, forward.ErrUnknownFunction)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{`"two"`, forward.ErrInvalidConstant},
		{`x + "two"`, forward.ErrInvalidConstant},
		{"true", forward.ErrInvalidConstant},
		{"null", forward.ErrInvalidConstant},
		{"nosuch(x)", forward.ErrUnknownFunction},
		{"x +", forward.ErrSyntax},
		{"x.y", forward.ErrSyntax},
		{"x[0]", forward.ErrSyntax},
		{"x % 2", forward.ErrSyntax},
		{"x == 2", forward.ErrSyntax},
		{"!x", forward.ErrSyntax},
		{"x ? 1 : 2", forward.ErrSyntax},
		{"[x]", forward.ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := hclexpr.Parse(tt.src)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_ArityCheckedAtEvaluation(t *testing.T) {
	f, err := hclexpr.Parse("sin(x, x)")
	require.NoError(t, err)

	_, err = f.Evaluate(forward.Binding{"x": 1})
	assert.ErrorIs(t, err, forward.ErrArity)
}
