// Package server exposes evaluation over HTTP.
//
//	POST /v1/evaluate  {"expressions": ["x*y"], "bindings": {"x": 1, "y": 2}, "wrt": ["x"]}
//	POST /v1/graph     {"expression": "x*y", "format": "mermaid"}
//	GET  /healthz
//	GET  /metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/born-ml/fwdiff/internal/forward"
	"github.com/born-ml/fwdiff/internal/hclexpr"
	"github.com/born-ml/fwdiff/internal/logging"
	"github.com/born-ml/fwdiff/internal/parallel"
	"github.com/born-ml/fwdiff/internal/render"
	"github.com/born-ml/fwdiff/internal/serialization"
)

// Config wires the handler's collaborators. Zero values are usable.
type Config struct {
	Logger   *slog.Logger
	Recorder forward.Recorder
	Gatherer prometheus.Gatherer // served on /metrics when set
	Parallel parallel.Config
}

// EvaluateRequest is the body of POST /v1/evaluate. A nil Wrt asks for
// every variable of each expression.
type EvaluateRequest struct {
	Expressions []string       `json:"expressions"`
	Bindings    map[string]any `json:"bindings"`
	Wrt         []string       `json:"wrt"`
}

// EvaluateResponse is the body of a successful evaluation.
type EvaluateResponse struct {
	Results []forward.Result `json:"results"`
}

// GraphRequest is the body of POST /v1/graph.
type GraphRequest struct {
	Expression string `json:"expression"`
	Format     string `json:"format"` // mermaid (default), dot or json
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type handler struct {
	cfg Config
}

// NewHandler builds the router.
func NewHandler(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	h := &handler{cfg: cfg}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/evaluate", h.evaluate)
		r.Post("/graph", h.graph)
	})
	return r
}

func (h *handler) evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Kind: "request"})
		return
	}

	b, err := forward.BindingFrom(req.Bindings)
	if err != nil {
		h.fail(w, err)
		return
	}

	scope := hclexpr.NewScope(nil)
	roots := make([]*forward.Node, len(req.Expressions))
	for i, src := range req.Expressions {
		if roots[i], err = scope.Parse(src); err != nil {
			h.fail(w, err)
			return
		}
	}

	opts := []forward.Option{
		forward.WithLogger(h.cfg.Logger),
		forward.WithConcurrency(h.cfg.Parallel),
	}
	if h.cfg.Recorder != nil {
		opts = append(opts, forward.WithRecorder(h.cfg.Recorder))
	}
	if req.Wrt != nil {
		wrt, err := scope.Wrt(req.Wrt)
		if err != nil {
			h.fail(w, err)
			return
		}
		opts = append(opts, forward.WithRespectTo(wrt...))
	}

	results, err := forward.EvaluateAll(roots, b, opts...)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, EvaluateResponse{Results: results})
}

func (h *handler) graph(w http.ResponseWriter, r *http.Request) {
	var req GraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Kind: "request"})
		return
	}

	format := render.FormatMermaid
	switch req.Format {
	case "", "mermaid":
	case "dot":
		format = render.FormatDOT
	case "json":
	default:
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unknown format " + req.Format, Kind: "request"})
		return
	}

	root, err := hclexpr.Parse(req.Expression)
	if err != nil {
		h.fail(w, err)
		return
	}
	if req.Format == "json" {
		doc, err := serialization.Encode(root)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, doc)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(render.Render(format, root, nil)))
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	kind := forward.ErrorKind(err)
	status := http.StatusUnprocessableEntity
	if kind == "internal" {
		status = http.StatusInternalServerError
		h.cfg.Logger.Error("request failed", "err", err)
	}
	h.writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}

// writeJSON encodes v before sending the status line, so a value JSON
// cannot carry (NaN, Inf) turns into a logged 500 instead of an empty 200.
func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.cfg.Logger.Error("encode response failed", "err", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "encode response: " + err.Error(), Kind: "internal"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// Run serves handler on addr until ctx is done, then shuts down with a
// grace period.
func Run(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return err
		}
		return nil
	}
}
