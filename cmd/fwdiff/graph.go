package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/fwdiff/internal/forward"
	"github.com/born-ml/fwdiff/internal/hclexpr"
	"github.com/born-ml/fwdiff/internal/render"
	"github.com/born-ml/fwdiff/internal/serialization"
)

func newGraphCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "graph <expression>",
		Short: "Print the structure of an expression graph",
		Long: `Prints the graph of an expression without evaluating it: an indented
pre-order or post-order listing, a Mermaid flowchart, a Graphviz digraph
or a JSON node list for external tools.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := hclexpr.Parse(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch format {
			case "pre":
				return forward.Preorder(w, root)
			case "post":
				return forward.Postorder(w, root)
			case "mermaid":
				_, err = fmt.Fprint(w, render.Mermaid(root, nil))
			case "dot":
				_, err = fmt.Fprint(w, render.DOT(root, nil))
			case "json":
				return serialization.Write(w, root)
			default:
				return fmt.Errorf("unknown graph format %q (want pre, post, mermaid, dot or json)", format)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pre", "Listing format (pre, post, mermaid, dot, json)")
	return cmd
}
