package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"outbound_ai_backend/internal/events"
	apphttp "outbound_ai_backend/internal/http"
	"outbound_ai_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorsCountDomainEvents(t *testing.T) {
	c := New()
	bus := events.NewInMemoryBus(logger.Discard())
	c.RegisterHandlers(bus)
	ctx := context.Background()

	mustPublish := func(e events.Event) {
		t.Helper()
		if err := bus.PublishSync(ctx, e); err != nil {
			t.Fatalf("publish %s: %v", e.EventName(), err)
		}
	}

	mustPublish(events.CallOutcomeRecorded{LeadID: "L1", Disposition: "Hang Up", Status: "Completed", DurationMinutes: 2, Cost: 1.98, ResolvedBy: "contact_id"})
	mustPublish(events.CallOutcomeRecorded{LeadID: "L2", Disposition: "Hang Up", Status: "Completed", DurationMinutes: 1, Cost: 0.99, ResolvedBy: "contact_id"})
	mustPublish(events.CallUnresolved{HadPhone: true})
	mustPublish(events.CallOutcomeFailed{LeadID: "L3"})
	mustPublish(events.CallTriggered{LeadID: "L4", CallID: "c"})

	if got := testutil.ToFloat64(c.OutcomesRecorded.WithLabelValues("Hang Up", "Completed", "contact_id")); got != 2 {
		t.Fatalf("expected 2 recorded outcomes, got %v", got)
	}
	if got := testutil.ToFloat64(c.Unresolved.WithLabelValues("true")); got != 1 {
		t.Fatalf("expected 1 unresolved, got %v", got)
	}
	if got := testutil.ToFloat64(c.UpdateFailures); got != 1 {
		t.Fatalf("expected 1 update failure, got %v", got)
	}
	if got := testutil.ToFloat64(c.CallsTriggered); got != 1 {
		t.Fatalf("expected 1 triggered call, got %v", got)
	}
	if got := testutil.ToFloat64(c.CallCost); got < 2.96 || got > 2.98 {
		t.Fatalf("expected accumulated cost 2.97, got %v", got)
	}
	if got := testutil.CollectAndCount(c.CallMinutes); got != 1 {
		t.Fatalf("expected one histogram series, got %d", got)
	}
}

func TestOtherDispositionsShareOneSeries(t *testing.T) {
	c := New()
	bus := events.NewInMemoryBus(logger.Discard())
	c.RegisterHandlers(bus)

	for _, reason := range []string{"customer-busy", "pipeline-error", "silence-timed-out"} {
		e := events.CallOutcomeRecorded{Disposition: "Other: " + reason, Status: "Completed", ResolvedBy: "exact_phone"}
		if err := bus.PublishSync(context.Background(), e); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	if got := testutil.CollectAndCount(c.OutcomesRecorded); got != 1 {
		t.Fatalf("expected a single series, got %d", got)
	}
	if got := testutil.ToFloat64(c.OutcomesRecorded.WithLabelValues("Other", "Completed", "exact_phone")); got != 3 {
		t.Fatalf("expected 3 outcomes under Other, got %v", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := New()
	c.CallsTriggered.Inc()

	engine := gin.New()
	c.RegisterRoutes(&apphttp.RouterContext{Engine: engine})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "calls_triggered_total 1") {
		t.Fatalf("expected counter in exposition, got:\n%s", rec.Body.String())
	}
}
