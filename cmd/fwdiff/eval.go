package main

import (
	"github.com/spf13/cobra"

	"github.com/born-ml/fwdiff/internal/hclexpr"
	"github.com/born-ml/fwdiff/internal/render"
)

func newEvalCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <job.hcl>",
		Short: "Evaluate every output of a job file",
		Long: `Loads a job file with bindings, an optional wrt list, an optional plot
path and one output block per expression, then evaluates all outputs
at the same point.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := hclexpr.LoadJob(args[0])
			if err != nil {
				return err
			}
			opts, err := g.options()
			if err != nil {
				return err
			}
			results, err := job.Evaluate(render.File{}, opts...)
			if err != nil {
				return err
			}

			names := make([]string, len(job.Outputs))
			for i, o := range job.Outputs {
				names[i] = o.Name
			}
			return writeResults(cmd.OutOrStdout(), g.output, named(names, results))
		},
	}
}
