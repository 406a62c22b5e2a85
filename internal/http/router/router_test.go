package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "commute_backend/internal/http"
	"commute_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type testConfig struct{}

func (testConfig) GetHTTPAddr() string      { return ":0" }
func (testConfig) GetCORSAllowAll() bool    { return false }
func (testConfig) GetCORSOrigins() []string { return []string{"http://localhost:3000"} }
func (testConfig) GetCORSAllowCreds() bool  { return false }
func (testConfig) GetRateLimitRPS() float64 { return 100 }
func (testConfig) GetRateLimitBurst() int   { return 100 }

type testHealth struct {
	err error
}

func (h testHealth) Ping(context.Context) error { return h.err }

type pingModule struct{}

func (pingModule) Name() string { return "ping" }
func (pingModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
}

func newEngine(health apphttp.HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(&apphttp.App{
		Config:  testConfig{},
		Logger:  logger.New("development"),
		Health:  health,
		Modules: []apphttp.Module{pingModule{}},
	})
}

func get(engine *gin.Engine, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthAndModules(t *testing.T) {
	engine := newEngine(testHealth{})

	if rec := get(engine, "/api/health", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected health 200, got %d", rec.Code)
	}
	if rec := get(engine, "/api/ready", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected ready 200, got %d", rec.Code)
	}
	rec := get(engine, "/api/v1/ping", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("expected module route, got %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRouter_ReadyFailsWhenStoreDown(t *testing.T) {
	engine := newEngine(testHealth{err: errors.New("connection refused")})
	if rec := get(engine, "/api/ready", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRouter_CORSAllowsConfiguredOrigin(t *testing.T) {
	engine := newEngine(nil)

	rec := get(engine, "/api/v1/ping", http.Header{"Origin": []string{"http://localhost:3000"}})
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	rec = get(engine, "/api/v1/ping", http.Header{"Origin": []string{"http://evil.example"}})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown origin, got %d", rec.Code)
	}
}
