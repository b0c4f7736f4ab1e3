package cli

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/curvature"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	opts := &ServeOptions{Workers: 2, Timeout: 30 * time.Second}
	logger := slog.New(slog.DiscardHandler)
	srv := httptest.NewServer(NewHandler(opts, logger, prometheus.NewRegistry()))
	t.Cleanup(srv.Close)
	return srv
}

func postTool(t *testing.T, srv *httptest.Server, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/tool", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestServeTool(t *testing.T) {
	srv := newTestServer(t)

	resp, data := postTool(t, srv, `{"tool":"vacuum","params":{"preset":"schwarzschild"}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var out curvature.ToolResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Empty(t, out.Error)
	assert.Equal(t, true, out.Result)
}

func TestServeToolReportsToolErrors(t *testing.T) {
	srv := newTestServer(t)

	resp, data := postTool(t, srv, `{"tool":"weyl","params":{}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out curvature.ToolResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "unknown tool: weyl", out.Error)
}

func TestServeToolBadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"tool":`, "unexpected EOF"},
		{"unknown field", `{"tool":"ricci","extra":1}`, "unknown field"},
		{"trailing data", `{"tool":"ricci"} {}`, "trailing data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := postTool(t, srv, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, string(data), tt.want)
		})
	}
}

func TestServeMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/tool")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServeSchemaAndHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/schema")
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.JSONEq(t, curvature.ToolSpec(), string(data))

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "ok", health["status"])
}

func TestServeMetrics(t *testing.T) {
	srv := newTestServer(t)
	postTool(t, srv, `{"tool":"ricci_scalar","params":{"preset":"sphere"}}`)
	postTool(t, srv, `{"tool":"weyl","params":{}}`)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, `curvature_tool_requests_total{status="ok",tool="ricci_scalar"} 1`)
	assert.Contains(t, body, `curvature_tool_requests_total{status="error",tool="weyl"} 1`)
	assert.Contains(t, body, `curvature_tool_duration_seconds_count{tool="ricci_scalar"} 1`)
}
