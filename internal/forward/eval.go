package forward

import (
	"fmt"
	"time"
)

// Result is the outcome of evaluating one expression: its value and its
// partial derivatives keyed by variable name.
type Result struct {
	Value      float64            `json:"value" yaml:"value"`
	Derivative map[string]float64 `json:"derivative" yaml:"derivative"`
}

// Evaluate computes root's value and partial derivatives at the point
// given by b.
//
// Without WithRespectTo the derivative map covers every variable in the
// graph. The call fails atomically: on error no Result is returned.
func Evaluate(root *Node, b Binding, opts ...Option) (Result, error) {
	results, _, err := run([]*Node{root}, b, newConfig(opts))
	if err != nil {
		return Result{}, err
	}
	return results[0], nil
}

// Evaluate is shorthand for Evaluate(n, b, opts...).
func (n *Node) Evaluate(b Binding, opts ...Option) (Result, error) {
	return Evaluate(n, b, opts...)
}

// run validates once, evaluates every root with its own trace table and
// handles plotting, logging and stats for both entry points.
func run(roots []*Node, b Binding, cfg *config) (results []Result, p *plan, err error) {
	start := time.Now()
	stats := Stats{Expressions: len(roots)}
	defer func() {
		stats.Duration = time.Since(start)
		if err != nil {
			cfg.logger.Debug("evaluation failed", "expressions", len(roots), "err", err)
		} else {
			cfg.logger.Debug("evaluation finished",
				"expressions", len(roots), "nodes", stats.Nodes, "tracked", stats.Tracked,
				"duration", stats.Duration)
		}
		if cfg.recorder != nil {
			cfg.recorder.Record(stats, err)
		}
	}()

	if cfg.plotPath != "" {
		if len(roots) != 1 {
			return nil, nil, &EvalError{Err: fmt.Errorf("%w: got %d", ErrPlotMultiple, len(roots))}
		}
		if cfg.plotter == nil {
			return nil, nil, &EvalError{Err: fmt.Errorf("%w: %s", ErrNilPlotter, cfg.plotPath)}
		}
	}

	p, err = prepare(roots, b, cfg)
	if err != nil {
		return nil, nil, err
	}
	stats.Nodes = p.nodes
	cfg.logger.Debug("evaluation started", "expressions", len(roots), "nodes", p.nodes, "variables", p.union)

	passes := make([]*pass, len(roots))
	for i := range roots {
		passes[i] = newPass(b, p.tracked(i))
		stats.Tracked = max(stats.Tracked, len(passes[i].tracked))
	}

	results = make([]Result, len(roots))
	err = forEach(len(roots), cfg, func(i int) error {
		res, err := passes[i].run(roots[i])
		if err != nil {
			return err
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if cfg.plotPath != "" {
		if err := cfg.plotter.Plot(cfg.plotPath, passes[0].snapshot(roots[0])); err != nil {
			return nil, nil, fmt.Errorf("plot %s: %w", cfg.plotPath, err)
		}
	}
	return results, p, nil
}

// plan is the validated view of an evaluation request.
type plan struct {
	vars   [][]string // per-root variable names, sorted
	union  []string   // all variable names, sorted
	wrt    []string   // resolved wrt names in request order
	wrtSet bool
	nodes  int
}

func (p *plan) tracked(i int) []string {
	if p.wrtSet {
		return p.wrt
	}
	return p.vars[i]
}

// prepare checks operand counts, the binding and wrt before any value is
// computed.
func prepare(roots []*Node, b Binding, cfg *config) (*plan, error) {
	for i, r := range roots {
		if r == nil {
			return nil, &EvalError{Err: fmt.Errorf("%w: expression %d", ErrNilExpression, i)}
		}
	}

	p := &plan{vars: make([][]string, len(roots))}
	union := make(map[string]struct{})
	var arityErr error
	for i, r := range roots {
		own := make(map[string]struct{})
		Walk(func(n *Node) {
			switch n.kind {
			case KindVariable:
				own[n.name] = struct{}{}
				union[n.name] = struct{}{}
			case KindOperation:
				if arityErr == nil && len(n.children) != n.op.Arity {
					arityErr = &EvalError{
						Op:   n.op.Name,
						Expr: n.String(),
						Err:  fmt.Errorf("%w: %s takes %d, got %d", ErrArity, n.op.Name, n.op.Arity, len(n.children)),
					}
				}
			}
		}, r)
		p.vars[i] = sortedKeys(own)
	}
	if arityErr != nil {
		return nil, arityErr
	}
	p.union = sortedKeys(union)
	p.nodes = Size(roots...)

	var missing []string
	for _, name := range p.union {
		if _, ok := b[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &EvalError{Vars: missing, Err: ErrUnboundVariable}
	}

	var bad []string
	for _, name := range sortedKeys(b) {
		if !isFinite(b[name]) {
			bad = append(bad, fmt.Sprintf("%s=%g", name, b[name]))
		}
	}
	if len(bad) > 0 {
		return nil, &EvalError{Vars: bad, Err: ErrInvalidBinding}
	}

	if cfg.wrtSet {
		wrt, err := resolveWrt(cfg.wrt, union)
		if err != nil {
			return nil, err
		}
		p.wrt, p.wrtSet = wrt, true
	}
	return p, nil
}

func resolveWrt(wrt []*Node, vars map[string]struct{}) ([]string, error) {
	names := make([]string, 0, len(wrt))
	seen := make(map[string]struct{}, len(wrt))
	var bad []string
	for i, n := range wrt {
		switch {
		case n == nil:
			bad = append(bad, fmt.Sprintf("#%d is nil", i))
		case n.kind != KindVariable:
			bad = append(bad, fmt.Sprintf("#%d %s is not a variable", i, n))
		default:
			if _, ok := vars[n.name]; !ok {
				bad = append(bad, fmt.Sprintf("%s does not occur in the expression", n.name))
				continue
			}
			if _, dup := seen[n.name]; dup {
				continue
			}
			seen[n.name] = struct{}{}
			names = append(names, n.name)
		}
	}
	if len(bad) > 0 {
		return nil, &EvalError{Vars: bad, Err: ErrInvalidWrt}
	}
	return names, nil
}

// trace is the value and tangent vector of one node; tangent[k] is the
// partial derivative with respect to tracked[k].
type trace struct {
	value   float64
	tangent []float64
}

// pass is the call-local state of one root's evaluation. Every distinct
// node is computed once and read from the table afterwards.
type pass struct {
	binding Binding
	tracked []string
	index   map[string]int
	cache   map[*Node]*trace
	zero    []float64 // shared, never written
}

func newPass(b Binding, tracked []string) *pass {
	index := make(map[string]int, len(tracked))
	for i, name := range tracked {
		index[name] = i
	}
	return &pass{
		binding: b,
		tracked: tracked,
		index:   index,
		cache:   make(map[*Node]*trace),
		zero:    make([]float64, len(tracked)),
	}
}

func (p *pass) run(root *Node) (Result, error) {
	t, err := p.visit(root)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: t.value, Derivative: p.derivative(t)}, nil
}

func (p *pass) derivative(t *trace) map[string]float64 {
	d := make(map[string]float64, len(p.tracked))
	for k, name := range p.tracked {
		d[name] = t.tangent[k]
	}
	return d
}

func (p *pass) visit(n *Node) (*trace, error) {
	if t, ok := p.cache[n]; ok {
		return t, nil
	}

	var t *trace
	switch n.kind {
	case KindVariable:
		t = &trace{value: p.binding[n.name], tangent: p.zero}
		if k, ok := p.index[n.name]; ok {
			t.tangent = make([]float64, len(p.tracked))
			t.tangent[k] = 1
		}

	case KindConstant:
		t = &trace{value: n.literal, tangent: p.zero}

	case KindOperation:
		args := make([]float64, len(n.children))
		inputs := make([]*trace, len(n.children))
		for i, c := range n.children {
			ct, err := p.visit(c)
			if err != nil {
				return nil, err
			}
			inputs[i] = ct
			args[i] = ct.value
		}

		if err := n.op.Check(args); err != nil {
			return nil, p.fail(n, err)
		}
		t = &trace{value: n.op.Value(args), tangent: make([]float64, len(p.tracked))}

		seeds := make([]float64, len(inputs))
		for k := range p.tracked {
			active := false
			for i, in := range inputs {
				seeds[i] = in.tangent[k]
				active = active || seeds[i] != 0
			}
			// No operand depends on tracked[k]: the partial is 0 whatever
			// the operator's derivative does at args.
			if !active {
				continue
			}
			if err := n.op.CheckTangent(args, seeds); err != nil {
				return nil, p.fail(n, err, p.tracked[k])
			}
			t.tangent[k] = n.op.Tangent(args, seeds)
		}
	}

	p.cache[n] = t
	return t, nil
}

func (p *pass) fail(n *Node, err error, vars ...string) error {
	return &EvalError{Op: n.op.Name, Expr: n.String(), Vars: vars, Err: err}
}
