package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/fwdiff/internal/logging"
	"github.com/born-ml/fwdiff/internal/metrics"
	"github.com/born-ml/fwdiff/internal/serialization"
	"github.com/born-ml/fwdiff/internal/server"
)

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h := server.NewHandler(server.Config{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestEvaluate(t *testing.T) {
	h := server.NewHandler(server.Config{})
	rr := post(t, h, "/v1/evaluate", `{
		"expressions": ["x * y", "sin(x)"],
		"bindings": {"x": 0, "y": 3}
	}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp server.EvaluateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 0.0, resp.Results[0].Value)
	assert.Equal(t, map[string]float64{"x": 3, "y": 0}, resp.Results[0].Derivative)
	assert.Equal(t, map[string]float64{"x": 1}, resp.Results[1].Derivative)
}

func TestEvaluate_Wrt(t *testing.T) {
	h := server.NewHandler(server.Config{})
	rr := post(t, h, "/v1/evaluate", `{"expressions": ["x * y"], "bindings": {"x": 2, "y": 3}, "wrt": ["y"]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"results":[{"value":6,"derivative":{"y":2}}]}`, rr.Body.String())

	rr = post(t, h, "/v1/evaluate", `{"expressions": ["x"], "bindings": {"x": 2}, "wrt": []}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"results":[{"value":2,"derivative":{}}]}`, rr.Body.String())
}

func TestEvaluate_Errors(t *testing.T) {
	h := server.NewHandler(server.Config{})
	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{"malformed json", `{`, http.StatusBadRequest, "request"},
		{"syntax", `{"expressions": ["x +"], "bindings": {}}`, http.StatusUnprocessableEntity, "syntax"},
		{"string binding", `{"expressions": ["x"], "bindings": {"x": "one"}}`, http.StatusUnprocessableEntity, "invalid_binding"},
		{"unbound", `{"expressions": ["x * y"], "bindings": {"x": 1}}`, http.StatusUnprocessableEntity, "unbound_variable"},
		{"domain", `{"expressions": ["log(x)"], "bindings": {"x": -1}}`, http.StatusUnprocessableEntity, "domain"},
		{"complex", `{"expressions": ["pow(x, 0.5)"], "bindings": {"x": -4}}`, http.StatusUnprocessableEntity, "complex_result"},
		{"wrt", `{"expressions": ["x"], "bindings": {"x": 1}, "wrt": ["z"]}`, http.StatusUnprocessableEntity, "invalid_wrt"},
		{"empty wrt name", `{"expressions": ["x"], "bindings": {"x": 1}, "wrt": [""]}`, http.StatusUnprocessableEntity, "invalid_wrt"},
		{"arity", `{"expressions": ["sin(x, x)"], "bindings": {"x": 1}}`, http.StatusUnprocessableEntity, "arity"},
		{"function", `{"expressions": ["gamma(x)"], "bindings": {"x": 1}}`, http.StatusUnprocessableEntity, "unknown_function"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, h, "/v1/evaluate", tt.body)
			assert.Equal(t, tt.status, rr.Code)

			var resp server.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.kind, resp.Kind)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestEvaluate_NonFiniteResult(t *testing.T) {
	var logs bytes.Buffer
	h := server.NewHandler(server.Config{Logger: logging.NewWriter(&logs, slog.LevelDebug)})

	rr := post(t, h, "/v1/evaluate", `{"expressions": ["exp(1000)"], "bindings": {}}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp server.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "internal", resp.Kind)
	assert.Contains(t, resp.Error, "encode response")
	assert.Contains(t, logs.String(), "encode response failed")
}

func TestGraph(t *testing.T) {
	h := server.NewHandler(server.Config{})

	rr := post(t, h, "/v1/graph", `{"expression": "x * 2"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "graph BT"))

	rr = post(t, h, "/v1/graph", `{"expression": "x * 2", "format": "dot"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "digraph"))

	rr = post(t, h, "/v1/graph", `{"expression": "x * x", "format": "json"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var doc serialization.Document
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Len(t, doc.Nodes, 2)
	assert.Equal(t, []int{1}, doc.Roots)

	rr = post(t, h, "/v1/graph", `{"expression": "x", "format": "svg"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.NewCollector(reg)
	require.NoError(t, err)
	h := server.NewHandler(server.Config{Recorder: c, Gatherer: reg})

	post(t, h, "/v1/evaluate", `{"expressions": ["x"], "bindings": {"x": 1}}`)
	post(t, h, "/v1/evaluate", `{"expressions": ["log(x)"], "bindings": {"x": 0}}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `fwdiff_evaluations_total{kind="domain",outcome="error"} 1`)
	assert.Contains(t, rr.Body.String(), `fwdiff_evaluations_total{kind="",outcome="ok"} 1`)

	// Without a gatherer the route is absent.
	rr = httptest.NewRecorder()
	server.NewHandler(server.Config{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, "127.0.0.1:0", server.NewHandler(server.Config{}), logging.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
