package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/danmuck/devkit/internal/catalog"
	"github.com/danmuck/devkit/internal/config"
	"github.com/danmuck/devkit/internal/testutil/testlog"
	"github.com/danmuck/devkit/internal/tools"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T, mutate func(*config.ServerConfig)) *Server {
	t.Helper()
	testlog.Start(t)
	cfg := config.DefaultServerConfig()
	cfg.Name = "devkit-test"
	cfg.RateLimit = config.RateLimitConfig{}
	if mutate != nil {
		mutate(&cfg)
	}
	reg, err := catalog.NewRegistry(cfg.Tools)
	require.NoError(t, err)
	return New(cfg, reg)
}

func do(t *testing.T, s *Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.HTTPRouter().ServeHTTP(rr, req)

	var out map[string]any
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	}
	return rr.Code, out
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t, nil)

	code, body := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "devkit-test", body["service"])

	code, body = do(t, s, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["ready"])
	assert.Equal(t, float64(len(catalog.Builtins())), body["tools"])
}

func TestReadyWithoutTools(t *testing.T) {
	s := newTestServer(t, func(cfg *config.ServerConfig) {
		cfg.Tools = []string{"none"}
	})
	code, body := do(t, s, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, false, body["ready"])
}

func TestListToolsAndCategories(t *testing.T) {
	s := newTestServer(t, func(cfg *config.ServerConfig) {
		cfg.Tools = []string{"crypto", "encoding.hex"}
	})

	code, body := do(t, s, http.MethodGet, "/tools", "")
	require.Equal(t, http.StatusOK, code)
	var ids []string
	for _, item := range body["tools"].([]any) {
		ids = append(ids, item.(map[string]any)["id"].(string))
	}
	if diff := cmp.Diff([]string{"crypto.hash", "crypto.hmac", "encoding.hex"}, ids); diff != "" {
		t.Fatalf("tool ids mismatch (-want +got):\n%s", diff)
	}

	code, body = do(t, s, http.MethodGet, "/tools?category=CRYPTO", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["tools"], 2)

	code, body = do(t, s, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, code)
	cats := body["categories"].([]any)
	require.Len(t, cats, 2)
	first := cats[0].(map[string]any)
	assert.Equal(t, "encoding", first["id"])
	assert.Equal(t, "Encoding", first["name"])
	assert.Equal(t, float64(1), first["tools"])
}

func TestDescribeTool(t *testing.T) {
	s := newTestServer(t, nil)

	code, body := do(t, s, http.MethodGet, "/tools/encoding.base64", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "encoding.base64", body["id"])
	ops := body["operations"].([]any)
	require.Len(t, ops, 2)
	assert.Equal(t, "encode", ops[0].(map[string]any)["name"])

	code, body = do(t, s, http.MethodGet, "/tools/encoding.rot13", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, tools.StatusError, body["status"])
}

func TestExecuteAction(t *testing.T) {
	s := newTestServer(t, nil)

	code, body := do(t, s, http.MethodPost, "/tools/encoding.base64/actions/encode", `{"args":{"input":"hello"}}`)
	require.Equal(t, http.StatusOK, code, "%v", body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "aGVsbG8=", body["output"])

	code, body = do(t, s, http.MethodPost, "/tools/convert.base/actions/convert", `{"args":{"input":255,"to":16,"upper":true}}`)
	require.Equal(t, http.StatusOK, code, "%v", body)
	assert.Equal(t, "FF", body["output"])
}

func TestExecuteActionErrors(t *testing.T) {
	s := newTestServer(t, func(cfg *config.ServerConfig) {
		cfg.MaxInputBytes = 1024
	})

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown tool", "/tools/encoding.rot13/actions/encode", `{"args":{"input":"x"}}`, http.StatusNotFound},
		{"unknown action", "/tools/encoding.base64/actions/rotate", `{"args":{"input":"x"}}`, http.StatusNotFound},
		{"missing input", "/tools/encoding.base64/actions/encode", `{"args":{}}`, http.StatusBadRequest},
		{"empty body", "/tools/encoding.base64/actions/encode", "", http.StatusBadRequest},
		{"bad json", "/tools/encoding.base64/actions/encode", `{"args":`, http.StatusBadRequest},
		{"trailing data", "/tools/encoding.base64/actions/encode", `{"args":{"input":"x"}} garbage`, http.StatusBadRequest},
		{"nested arg", "/tools/encoding.base64/actions/encode", `{"args":{"input":{"a":1}}}`, http.StatusBadRequest},
		{"invalid input", "/tools/encoding.base64/actions/decode", `{"args":{"input":"!!!"}}`, http.StatusBadRequest},
		{"too large", "/tools/encoding.base64/actions/encode", fmt.Sprintf(`{"args":{"input":%q}}`, strings.Repeat("a", 2048)), http.StatusRequestEntityTooLarge},
		{"body too large", "/tools/encoding.base64/actions/encode", fmt.Sprintf(`{"args":{"input":%q}}`, strings.Repeat("a", 16*1024)), http.StatusRequestEntityTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := do(t, s, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.want, code, "%v", body)
			assert.Equal(t, tools.StatusError, body["status"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.ServerConfig) {
		cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}
	})

	code, _ := do(t, s, http.MethodGet, "/tools", "")
	require.Equal(t, http.StatusOK, code)
	code, body := do(t, s, http.MethodGet, "/tools", "")
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "rate limit exceeded", body["error"])

	code, _ = do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	code, _ := do(t, s, http.MethodPost, "/tools/crypto.hash/actions/digest", `{"args":{"input":"abc"}}`)
	require.Equal(t, http.StatusOK, code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	s.HTTPRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `devkit_tool_executions_total{action="digest",status="ok",tool="crypto.hash"}`)
	assert.Contains(t, rr.Body.String(), `devkit_http_requests_total`)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, func(cfg *config.ServerConfig) {
		cfg.CorsOrigins = []string{"http://example.test"}
	})
	req := httptest.NewRequest(http.MethodOptions, "/tools", nil)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	s.HTTPRouter().ServeHTTP(rr, req)
	assert.Equal(t, "http://example.test", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, func(cfg *config.ServerConfig) {
		cfg.ShutdownTimeout = 2 * time.Second
	})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
	}()

	transport := &http.Transport{DisableKeepAlives: true}
	client := &http.Client{Transport: transport, Timeout: 2 * time.Second}
	resp, err := client.Post("http://"+ln.Addr().String()+"/tools/encoding.hex/actions/encode",
		"application/json", bytes.NewBufferString(`{"args":{"input":"hi"}}`))
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "6869", body["output"])
	transport.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
