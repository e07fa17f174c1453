package hclexpr_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/fwdiff/internal/forward"
	"github.com/born-ml/fwdiff/internal/hclexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJob = `
bindings = { x = 0.5, y = 2 }
wrt      = ["x"]
plot     = "f.mmd"

output "product" {
  value = x * y
}

output "wave" {
  value = sin(x) + y
}
`

func TestLoadJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sampleJob), 0o600))

	job, err := hclexpr.LoadJob(path)
	require.NoError(t, err)

	assert.Equal(t, forward.Binding{"x": 0.5, "y": 2}, job.Bindings)
	assert.Equal(t, "f.mmd", job.Plot)
	require.Len(t, job.Outputs, 2)
	assert.Equal(t, "product", job.Outputs[0].Name)
	assert.Equal(t, "wave", job.Outputs[1].Name)
	require.Len(t, job.Wrt, 1)
	assert.Equal(t, "x", job.Wrt[0].Name())

	// No plotter: the plot path is ignored.
	results, err := job.Evaluate(nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, results[0].Value)
	assert.Equal(t, map[string]float64{"x": 2}, results[0].Derivative)
	assert.InDelta(t, math.Sin(0.5)+2, results[1].Value, 1e-15)
	assert.Equal(t, map[string]float64{"x": math.Cos(0.5)}, results[1].Derivative)
}

func TestParseJob_DefaultWrt(t *testing.T) {
	job, err := hclexpr.ParseJob([]byte(`
bindings = { a = 3, b = 4 }
output "h" { value = sqrt(a * a + b * b) }
output "s" { value = a + 1 }
`), "job.hcl")
	require.NoError(t, err)
	assert.Nil(t, job.Wrt)

	results, err := job.Evaluate(nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, results[0].Value)
	assert.InDelta(t, 0.6, results[0].Derivative["a"], 1e-15)
	assert.InDelta(t, 0.8, results[0].Derivative["b"], 1e-15)
	assert.Equal(t, map[string]float64{"a": 1}, results[1].Derivative)
}

func TestParseJob_EmptyWrt(t *testing.T) {
	job, err := hclexpr.ParseJob([]byte(`
bindings = { x = 1 }
wrt = []
output "f" { value = x * 2 }
`), "job.hcl")
	require.NoError(t, err)
	require.NotNil(t, job.Wrt)

	results, err := job.Evaluate(nil)
	require.NoError(t, err)
	assert.Empty(t, results[0].Derivative)
}

func TestParseJob_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"syntax", `output "f" { value = `, forward.ErrSyntax},
		{"unknown attribute", `colour = 1`, forward.ErrSyntax},
		{"duplicate output", `
output "f" { value = 1 }
output "f" { value = 2 }`, forward.ErrSyntax},
		{"string binding", `bindings = { x = "one" }`, forward.ErrInvalidBinding},
		{"bool binding", `bindings = { x = true }`, forward.ErrInvalidBinding},
		{"bindings not object", `bindings = [1, 2]`, forward.ErrInvalidBinding},
		{"string literal", `output "f" { value = "x" }`, forward.ErrInvalidConstant},
		{"unknown function", `output "f" { value = erf(x) }`, forward.ErrUnknownFunction},
		{"empty wrt name", `
wrt = [""]
output "f" { value = x }`, forward.ErrInvalidWrt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hclexpr.ParseJob([]byte(tt.src), "job.hcl")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestJob_EvaluationErrors(t *testing.T) {
	job, err := hclexpr.ParseJob([]byte(`
bindings = { x = 1 }
wrt = ["q"]
output "f" { value = x }
`), "job.hcl")
	require.NoError(t, err)
	_, err = job.Evaluate(nil)
	assert.ErrorIs(t, err, forward.ErrInvalidWrt)

	job, err = hclexpr.ParseJob([]byte(`output "f" { value = x + y }`), "job.hcl")
	require.NoError(t, err)
	_, err = job.Evaluate(nil)
	assert.ErrorIs(t, err, forward.ErrUnboundVariable)
}

func TestLoadJob_MissingFile(t *testing.T) {
	_, err := hclexpr.LoadJob(filepath.Join(t.TempDir(), "absent.hcl"))
	assert.Error(t, err)
}
