package httpkit

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"outbound_ai_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStaticCORSAnswersPreflightWithoutBody(t *testing.T) {
	engine := gin.New()
	engine.Use(StaticCORS("*", []string{"authorization", "content-type"}))
	engine.POST("/hook", func(c *gin.Context) { c.String(http.StatusOK, "handled") })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/hook", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty preflight body, got %q", rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "authorization, content-type" {
		t.Fatalf("unexpected allow headers %q", got)
	}
}

func TestStaticCORSDecoratesRegularResponses(t *testing.T) {
	engine := gin.New()
	engine.Use(StaticCORS("*", []string{"content-type"}))
	engine.POST("/hook", func(c *gin.Context) { c.String(http.StatusOK, "handled") })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hook", nil))

	if rec.Body.String() != "handled" {
		t.Fatalf("expected handler to run, got %q", rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected CORS origin header without an Origin request header")
	}
}

func TestRequestIDIsGeneratedAndEchoed(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	var seen string
	engine.GET("/", func(c *gin.Context) {
		seen = c.GetString(ContextRequestIDKey)
		if v, _ := c.Request.Context().Value(logger.RequestIDKey).(string); v != seen {
			t.Errorf("request context id %q does not match gin id %q", v, seen)
		}
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a generated request id")
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("expected header %q, got %q", seen, rec.Header().Get(RequestIDHeader))
	}
}

func TestRateLimitRejectsAfterBurst(t *testing.T) {
	limiter := PerMinute(1, logger.Discard())
	engine := gin.New()
	engine.Use(limiter.RateLimit())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	if first.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be limited, got %d", second.Code)
	}
}

func TestRequestLoggerReportsServerErrors(t *testing.T) {
	var buf bytes.Buffer
	engine := gin.New()
	engine.Use(RequestLogger(logger.NewWithWriter("production", &buf)))
	engine.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/fail", func(c *gin.Context) {
		HandleError(c, errors.New("pool exhausted"))
	})

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two log lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], `"msg":"http_request"`) {
		t.Fatalf("expected http_request for 200, got %s", lines[0])
	}
	if !strings.Contains(lines[1], `"msg":"http_error"`) || !strings.Contains(lines[1], "pool exhausted") {
		t.Fatalf("expected http_error with cause for 500, got %s", lines[1])
	}
}
