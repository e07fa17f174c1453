package main

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/born-ml/fwdiff/internal/forward"
	"github.com/born-ml/fwdiff/internal/logging"
	"github.com/born-ml/fwdiff/internal/parallel"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	logLevel string
	output   string
	workers  int
}

func (g *globals) logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(g.logLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

func (g *globals) options() ([]forward.Option, error) {
	logger, err := g.logger()
	if err != nil {
		return nil, err
	}
	return []forward.Option{forward.WithLogger(logger), forward.WithConcurrency(g.parallel())}, nil
}

func (g *globals) parallel() parallel.Config {
	cfg := parallel.DefaultConfig()
	if g.workers > 0 {
		cfg.NumWorkers = g.workers
	}
	cfg.Enabled = cfg.NumWorkers > 1
	return cfg
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "fwdiff",
		Short: "Forward-mode automatic differentiation of scalar expressions",
		Long: `fwdiff evaluates expression graphs together with their exact partial
derivatives. Expressions use HCL syntax, for example "sin(x) * pow(y, 2)".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch g.output {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unknown output format %q (want text, json or yaml)", g.output)
			}
			_, err := logging.ParseLevel(g.logLevel)
			return err
		},
	}
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&g.output, "output", "o", "text", "Result format (text, json, yaml)")
	root.PersistentFlags().IntVar(&g.workers, "workers", runtime.NumCPU(), "Goroutines for batch evaluation")

	root.AddCommand(
		newEvalCmd(g),
		newExprCmd(g),
		newGraphCmd(),
		newMinimizeCmd(g),
		newServeCmd(g),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of fwdiff",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fwdiff version %s\n", version)
		},
	}
}
