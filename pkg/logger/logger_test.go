package logger

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("orders-service", Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_WithFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.log")
	log, err := New("orders-service", Config{
		Level:      "debug",
		File:       path,
		MaxSizeMB:  1,
		MaxAgeDays: 1,
	})
	require.NoError(t, err)

	log.Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"service":"orders-service"`)
}

func TestMiddleware_LogsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(Middleware(zap.New(core)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusNoContent), fields["status"])
	assert.Equal(t, "abc", fields["request_id"])
}
