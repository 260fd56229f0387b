package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apphttp "outbound_ai_backend/internal/http"
	"outbound_ai_backend/internal/leads/repository"
	"outbound_ai_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(store *fakeLeadStore) *gin.Engine {
	engine := gin.New()
	module := &Module{handler: NewHandler(newTestService(store, nil, &recordingBus{}), logger.Discard())}
	module.RegisterRoutes(&apphttp.RouterContext{
		Engine: engine,
		V1:     engine.Group("/api/v1"),
		Public: engine.Group("/api/v1"),
	})
	return engine
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHandleCallWebhookInvalidJSONStillReturns200(t *testing.T) {
	engine := newTestEngine(newFakeLeadStore())

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/webhook/calls", strings.NewReader("not json")))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success || resp.Message != msgInvalidPayload {
		t.Fatalf("unexpected response %+v", resp)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected CORS header on error response")
	}
}

func TestHandleCallWebhookRecordsOutcome(t *testing.T) {
	store := newFakeLeadStore(repository.Lead{ID: "L1"})
	engine := newTestEngine(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/calls", strings.NewReader(doNotContactPayload))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success || resp.LeadID != "L1" || len(resp.Data) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "authorization, x-client-info, apikey, content-type" {
		t.Fatalf("unexpected allow headers %q", got)
	}
}

func TestHandleCallWebhookPreflight(t *testing.T) {
	engine := newTestEngine(newFakeLeadStore())

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/webhook/calls", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected wildcard origin")
	}
}

// panickingStore blows up on the first lookup.
type panickingStore struct {
	*fakeLeadStore
}

func (panickingStore) GetByExactPhone(context.Context, string) (repository.Lead, error) {
	panic("driver exploded")
}

func TestHandleCallWebhookRecoversFromPanic(t *testing.T) {
	engine := gin.New()
	svc := NewService(panickingStore{newFakeLeadStore()}, nil, &recordingBus{}, Options{}, logger.Discard())
	engine.POST("/hook", NewHandler(svc, logger.Discard()).HandleCallWebhook)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hook", strings.NewReader(`{"customer":{"number":"5551112222"}}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success || resp.Message != msgInternalError {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Error != errInternal || strings.Contains(rec.Body.String(), "driver exploded") {
		t.Fatalf("expected generic error without panic value, got %q", rec.Body.String())
	}
}

func TestHandleCallWebhookRejectsOversizedBody(t *testing.T) {
	engine := newTestEngine(newFakeLeadStore())

	body := `{"summary":"` + strings.Repeat("a", maxWebhookBodyBytes) + `"}`
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/webhook/calls", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success || resp.Message != msgPayloadTooLarge {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !strings.Contains(resp.Error, "1048576") {
		t.Fatalf("expected size limit in error, got %q", resp.Error)
	}
}
