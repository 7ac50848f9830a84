package observability

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/devkit/internal/testutil/testlog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("devkit-a", "GET", "/health", 200, 12*time.Millisecond)
	RecordRateLimited("devkit-a")
	RecordToolExecution("encoding.base64", "encode", "ok", time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("devkit-a", "GET", "/health", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRateLimited.WithLabelValues("devkit-a")))
	assert.Equal(t, float64(1), testutil.ToFloat64(toolExecutions.WithLabelValues("encoding.base64", "encode", "ok")))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	router := gin.New()
	router.Use(RequestLogger(logger), RequestMetricsMiddleware("devkit-mw"))
	router.GET("/tools/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	router.POST("/tools/:id/actions/:action", func(c *gin.Context) {
		_ = c.Error(errors.New("bad input"))
		c.Status(http.StatusBadRequest)
	})

	for _, path := range []string{"/tools/a", "/tools/b", "/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(httpRequests.WithLabelValues("devkit-mw", "GET", "/tools/:id", "204")))
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("devkit-mw", "GET", unmatchedPath, "404")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"path":"/tools/:id"`)
	assert.Contains(t, lines[2], `"level":"warn"`)
	assert.Contains(t, lines[2], `"path":"/missing"`)
	assert.Contains(t, lines[0], `"tool":"a"`)
	assert.NotContains(t, lines[2], `"tool"`)

	buf.Reset()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tools/text.diff/actions/unified", nil))
	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, `"tool":"text.diff"`)
	assert.Contains(t, line, `"action":"unified"`)
	assert.Contains(t, line, `"error":"bad input"`)
	assert.Contains(t, line, `"level":"warn"`)
}
