package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bottleneck-mcp/internal/config"
	"bottleneck-mcp/internal/mcp"
	"bottleneck-mcp/internal/stats"
)

func newTestHTTPServer(t *testing.T, cfg config.HTTPConfig) (*Server, *httptest.Server) {
	t.Helper()
	srv := mcp.NewServer(mcp.Options{Config: &config.AppConfig{}, Version: "test"})
	srv.Store().Put("weekly", "test", []stats.TaskRecord{
		{ID: 1, QueueWaitTime: 10, ProcessStepDuration: 20},
		{ID: 2, QueueWaitTime: 30, ProcessStepDuration: 10},
	})

	h := New(srv, cfg, "test")
	t.Cleanup(h.limiter.Stop)

	ts := httptest.NewServer(h.Router())
	t.Cleanup(ts.Close)
	return h, ts
}

func TestHealth(t *testing.T) {
	_, ts := newTestHTTPServer(t, config.HTTPConfig{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, healthResponse{Status: "ok", Version: "test", Datasets: 1}, body)
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestHTTPServer(t, config.HTTPConfig{})

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	_, ts := newTestHTTPServer(t, config.HTTPConfig{AllowedOrigins: []string{"https://dash.example.com"}})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/mcp", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://dash.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://dash.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMCPOverStreamableHTTP(t *testing.T) {
	_, ts := newTestHTTPServer(t, config.HTTPConfig{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "http-test", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: ts.URL + "/mcp"}, nil)
	require.NoError(t, err)
	defer cs.Close()

	res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{Name: "list_datasets", Arguments: map[string]any{}})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	assert.Contains(t, res.Content[0].(*sdkmcp.TextContent).Text, `"weekly"`)
}
