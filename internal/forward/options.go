package forward

import (
	"log/slog"
	"time"

	"github.com/born-ml/fwdiff/internal/logging"
	"github.com/born-ml/fwdiff/internal/parallel"
)

// Option configures one Evaluate or EvaluateAll call.
type Option func(*config)

type config struct {
	wrt      []*Node
	wrtSet   bool
	plotPath string
	plotter  Plotter
	logger   *slog.Logger
	recorder Recorder
	parallel parallel.Config
}

func newConfig(opts []Option) *config {
	cfg := &config{
		logger:   logging.NewNop(),
		parallel: parallel.Config{Enabled: false},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithRespectTo restricts the derivative map to the given variables. Every
// entry must be a variable node whose name occurs in the evaluated graph.
// Calling it with no arguments requests an empty derivative map.
func WithRespectTo(vars ...*Node) Option {
	return func(c *config) {
		c.wrt = vars
		c.wrtSet = true
	}
}

// WithPlot renders the evaluated graph to path once evaluation succeeds.
// A nil plotter fails the evaluation with ErrNilPlotter.
func WithPlot(path string, p Plotter) Option {
	return func(c *config) {
		c.plotPath = path
		c.plotter = p
	}
}

// WithLogger sets the logger for evaluation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder attaches a statistics sink.
func WithRecorder(r Recorder) Option {
	return func(c *config) {
		c.recorder = r
	}
}

// WithConcurrency lets EvaluateAll evaluate expressions on several
// goroutines. Single evaluations ignore it.
func WithConcurrency(cfg parallel.Config) Option {
	return func(c *config) {
		c.parallel = cfg
	}
}

// Plotter renders a successful evaluation.
type Plotter interface {
	Plot(path string, snap *Snapshot) error
}

// Recorder receives one Stats per Evaluate/EvaluateAll call, successful or
// not.
type Recorder interface {
	Record(stats Stats, err error)
}

// Stats summarizes an evaluation call.
type Stats struct {
	Expressions int           // Roots evaluated
	Nodes       int           // Distinct nodes across all roots
	Tracked     int           // Derivative directions per root (max)
	Duration    time.Duration // Wall time including validation
}
