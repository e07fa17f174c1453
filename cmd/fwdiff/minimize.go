package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/born-ml/fwdiff/internal/hclexpr"
	"github.com/born-ml/fwdiff/internal/optim"
)

func newMinimizeCmd(g *globals) *cobra.Command {
	var (
		binds    []string
		params   []string
		method   string
		lr       float64
		momentum float64
		steps    int
		tol      float64
	)
	cmd := &cobra.Command{
		Use:   "minimize <expression>",
		Short: "Minimize an expression by gradient descent",
		Long: `Starts at the --bind point and follows the forward-mode gradient until
its norm falls below --tol or --steps is exhausted. Only --params move;
every other variable stays at its bound value.`,
		Example: `  fwdiff minimize 'pow(x - 1, 2) + pow(y, 2)' -b x=5 -b y=-3 --method adam --lr 0.1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := hclexpr.Parse(args[0])
			if err != nil {
				return err
			}
			start, err := parseBindings(binds)
			if err != nil {
				return err
			}

			var opt optim.Optimizer
			switch method {
			case "sgd":
				opt = optim.NewSGD(optim.SGDConfig{LR: lr, Momentum: momentum})
			case "adam":
				opt = optim.NewAdam(optim.AdamConfig{LR: lr})
			default:
				return fmt.Errorf("unknown method %q (want sgd or adam)", method)
			}

			opts, err := g.options()
			if err != nil {
				return err
			}
			cfg := optim.MinimizeConfig{MaxSteps: steps, Tolerance: tol}
			if cmd.Flags().Changed("params") {
				cfg.Params = params
			}

			res, err := optim.Minimize(f, start, opt, cfg, opts...)
			if err != nil && !errors.Is(err, optim.ErrNotConverged) {
				return err
			}

			report := minimizeReport{
				Expression: args[0],
				Value:      res.Result.Value,
				Point:      res.Point,
				Gradient:   res.Result.Derivative,
				Steps:      res.Steps,
				Converged:  err == nil,
			}
			if werr := writeMinimize(cmd.OutOrStdout(), g.output, report); werr != nil {
				return werr
			}
			return err
		},
	}
	cmd.Flags().StringArrayVarP(&binds, "bind", "b", nil, "Starting point name=value (repeatable)")
	cmd.Flags().StringSliceVar(&params, "params", nil, "Variables to optimize (default: all)")
	cmd.Flags().StringVarP(&method, "method", "m", "sgd", "Optimizer (sgd, adam)")
	cmd.Flags().Float64Var(&lr, "lr", 0, "Learning rate (default: 0.01 for sgd, 0.001 for adam)")
	cmd.Flags().Float64Var(&momentum, "momentum", 0, "SGD momentum in [0, 1)")
	cmd.Flags().IntVar(&steps, "steps", 1000, "Maximum optimizer steps")
	cmd.Flags().Float64Var(&tol, "tol", 1e-8, "Gradient norm at which to stop")
	return cmd
}

// minimizeReport is the output of the minimize command.
type minimizeReport struct {
	Expression string             `json:"expression" yaml:"expression"`
	Value      float64            `json:"value" yaml:"value"`
	Point      map[string]float64 `json:"point" yaml:"point"`
	Gradient   map[string]float64 `json:"gradient" yaml:"gradient"`
	Steps      int                `json:"steps" yaml:"steps"`
	Converged  bool               `json:"converged" yaml:"converged"`
}

func writeMinimize(w io.Writer, format string, r minimizeReport) error {
	switch format {
	case "json", "yaml":
		return encode(w, format, r)
	}
	status := "converged"
	if !r.Converged {
		status = "not converged"
	}
	if _, err := fmt.Fprintf(w, "%s = %s (%s after %d steps)\n", r.Expression, formatFloat(r.Value), status, r.Steps); err != nil {
		return err
	}
	names := make([]string, 0, len(r.Point))
	for name := range r.Point {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "  %s = %s\n", name, formatFloat(r.Point[name])); err != nil {
			return err
		}
	}
	return nil
}
