package hclexpr

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/born-ml/fwdiff/internal/forward"
)

// Job is a batch evaluation request read from an HCL file:
//
//	bindings = { x = 0.5, y = 2 }
//	wrt      = ["x"]
//	plot     = "f.mmd"
//
//	output "f" {
//	  value = x * y + sin(x)
//	}
type Job struct {
	Bindings forward.Binding
	Wrt      []*forward.Node // nil means every variable of each output
	Plot     string
	Outputs  []Output
}

// Output is one named expression of a Job.
type Output struct {
	Name string
	Expr *forward.Node
}

type hclJobFile struct {
	Bindings cty.Value         `hcl:"bindings,optional"`
	Wrt      *[]string         `hcl:"wrt,optional"`
	Plot     string            `hcl:"plot,optional"`
	Outputs  []*hclOutputBlock `hcl:"output,block"`
}

type hclOutputBlock struct {
	Name  string         `hcl:"name,label"`
	Value hcl.Expression `hcl:"value"`
}

// LoadJob reads and lowers a job file.
func LoadJob(path string) (*Job, error) {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse %s: %s", forward.ErrSyntax, path, diags.Error())
	}
	return decodeJob(file.Body, path)
}

// ParseJob lowers job source held in memory; filename is used in messages.
func ParseJob(src []byte, filename string) (*Job, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse %s: %s", forward.ErrSyntax, filename, diags.Error())
	}
	return decodeJob(file.Body, filename)
}

func decodeJob(body hcl.Body, filename string) (*Job, error) {
	var raw hclJobFile
	if diags := gohcl.DecodeBody(body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode %s: %s", forward.ErrSyntax, filename, diags.Error())
	}

	bindings, err := decodeBindings(raw.Bindings)
	if err != nil {
		return nil, err
	}

	scope := NewScope(nil)
	job := &Job{Bindings: bindings, Plot: raw.Plot, Outputs: make([]Output, 0, len(raw.Outputs))}

	seen := make(map[string]struct{}, len(raw.Outputs))
	for _, out := range raw.Outputs {
		if _, dup := seen[out.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate output %q in %s", forward.ErrSyntax, out.Name, filename)
		}
		seen[out.Name] = struct{}{}

		expr, err := scope.Lower(out.Value)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", out.Name, err)
		}
		job.Outputs = append(job.Outputs, Output{Name: out.Name, Expr: expr})
	}

	if raw.Wrt != nil {
		wrt, err := scope.Wrt(*raw.Wrt)
		if err != nil {
			return nil, err
		}
		job.Wrt = wrt
	}
	return job, nil
}

// decodeBindings converts an object of numbers. Names are visited in sorted
// order so the first rejected entry is stable.
func decodeBindings(v cty.Value) (forward.Binding, error) {
	b := forward.Binding{}
	if v.IsNull() {
		return b, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("%w: bindings must be an object, got %s", forward.ErrInvalidBinding, ty.FriendlyName())
	}

	values := v.AsValueMap()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var bad []string
	for _, name := range names {
		val := values[name]
		if val.IsNull() || !val.IsKnown() || val.Type() != cty.Number {
			bad = append(bad, name)
			continue
		}
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			bad = append(bad, name)
			continue
		}
		b[name] = f
	}
	if len(bad) > 0 {
		return nil, &forward.EvalError{Err: forward.ErrInvalidBinding, Vars: bad}
	}
	return b, nil
}

// Expressions returns the output graphs in file order.
func (j *Job) Expressions() []*forward.Node {
	out := make([]*forward.Node, len(j.Outputs))
	for i, o := range j.Outputs {
		out[i] = o.Expr
	}
	return out
}

// Evaluate runs every output against the job's bindings. A plot path is
// honored only when p is non-nil.
func (j *Job) Evaluate(p forward.Plotter, opts ...forward.Option) ([]forward.Result, error) {
	all := make([]forward.Option, 0, len(opts)+2)
	if j.Wrt != nil {
		all = append(all, forward.WithRespectTo(j.Wrt...))
	}
	if j.Plot != "" && p != nil {
		all = append(all, forward.WithPlot(j.Plot, p))
	}
	all = append(all, opts...)
	return forward.EvaluateAll(j.Expressions(), j.Bindings, all...)
}
