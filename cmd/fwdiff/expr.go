package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/fwdiff/internal/forward"
	"github.com/born-ml/fwdiff/internal/hclexpr"
	"github.com/born-ml/fwdiff/internal/render"
)

func newExprCmd(g *globals) *cobra.Command {
	var (
		binds []string
		wrt   []string
		plot  string
	)
	cmd := &cobra.Command{
		Use:   "expr <expression>...",
		Short: "Evaluate expressions given on the command line",
		Example: `  fwdiff expr 'x * y + sin(x)' --bind x=0.5 --bind y=2
  fwdiff expr 'pow(x, 3)' --bind x=2 --wrt x --plot cube.mmd`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := parseBindings(binds)
			if err != nil {
				return err
			}

			scope := hclexpr.NewScope(nil)
			roots := make([]*forward.Node, len(args))
			for i, src := range args {
				if roots[i], err = scope.Parse(src); err != nil {
					return err
				}
			}

			opts, err := g.options()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("wrt") {
				nodes, err := scope.Wrt(wrt)
				if err != nil {
					return err
				}
				opts = append(opts, forward.WithRespectTo(nodes...))
			}
			if plot != "" {
				opts = append(opts, forward.WithPlot(plot, render.File{}))
			}

			results, err := forward.EvaluateAll(roots, b, opts...)
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), g.output, named(args, results))
		},
	}
	cmd.Flags().StringArrayVarP(&binds, "bind", "b", nil, "Variable binding name=value (repeatable)")
	cmd.Flags().StringSliceVarP(&wrt, "wrt", "w", nil, "Variables to differentiate with respect to (default: all)")
	cmd.Flags().StringVarP(&plot, "plot", "p", "", "Write the evaluated graph to a .mmd, .md or .dot file")
	return cmd
}

// parseBindings reads name=value pairs. Values that are not numbers are
// passed through so BindingFrom reports them with the other invalid entries.
func parseBindings(pairs []string) (forward.Binding, error) {
	values := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q is not name=value", forward.ErrInvalidBinding, p)
		}
		raw = strings.TrimSpace(raw)
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			values[name] = v
		} else {
			values[name] = raw
		}
	}
	return forward.BindingFrom(values)
}
