package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/insurance/backend/internal/infrastructure/config"
	"github.com/insurance/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine() *gin.Engine {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	return New(cfg, zap.NewNop(), Handlers{
		System: handler.NewSystemHandler(nil),
	})
}

func TestHealthEndpoint(t *testing.T) {
	engine := newTestEngine()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["uptime"])
}

func TestRequestIDPropagation(t *testing.T) {
	engine := newTestEngine()

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "router-test-id")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "router-test-id", w.Header().Get("X-Request-ID"))
}

func TestSecurityHeadersApplied(t *testing.T) {
	engine := newTestEngine()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestUnknownRouteReturns404(t *testing.T) {
	engine := newTestEngine()

	req := httptest.NewRequest("GET", "/api/v1/does-not-exist", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSOverlay(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.HTTP.CORSAllowOrigins = []string{"http://portal.example.com"}
	engine := New(cfg, zap.NewNop(), Handlers{
		System: handler.NewSystemHandler(nil),
	})

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://portal.example.com")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "http://portal.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
