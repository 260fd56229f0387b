// Package metrics exposes Prometheus collectors for call outcomes. Collectors are
// fed from domain events, so the webhook path never touches them directly.
package metrics

import (
	"context"
	"strings"

	"outbound_ai_backend/internal/events"
	apphttp "outbound_ai_backend/internal/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors holds every metric this service exports.
type Collectors struct {
	registry *prometheus.Registry

	OutcomesRecorded *prometheus.CounterVec
	Unresolved       *prometheus.CounterVec
	UpdateFailures   prometheus.Counter
	CallMinutes      prometheus.Histogram
	CallCost         prometheus.Counter
	CallsTriggered   prometheus.Counter
}

// New registers the collectors on a fresh registry, plus the Go runtime and
// process collectors.
func New() *Collectors {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Collectors{
		registry: reg,
		OutcomesRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "call_outcomes_recorded_total",
			Help: "Call outcomes written to leads",
		}, []string{"disposition", "status", "resolved_by"}),
		Unresolved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "call_outcomes_unresolved_total",
			Help: "Webhooks that matched no lead",
		}, []string{"had_phone"}),
		UpdateFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "call_outcome_update_failures_total",
			Help: "Lead updates that failed while recording an outcome",
		}),
		CallMinutes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "call_duration_minutes",
			Help:    "Duration of recorded calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 3, 5, 8, 13, 20, 30},
		}),
		CallCost: factory.NewCounter(prometheus.CounterOpts{
			Name: "call_cost_dollars_total",
			Help: "Accumulated cost of recorded calls",
		}),
		CallsTriggered: factory.NewCounter(prometheus.CounterOpts{
			Name: "calls_triggered_total",
			Help: "Outbound calls accepted by the voice provider",
		}),
	}
}

// RegisterHandlers subscribes the collectors to domain events.
func (c *Collectors) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.CallOutcomeRecorded{}.EventName(), events.HandlerFunc(c.handleOutcomeRecorded))
	bus.Subscribe(events.CallUnresolved{}.EventName(), events.HandlerFunc(c.handleUnresolved))
	bus.Subscribe(events.CallOutcomeFailed{}.EventName(), events.HandlerFunc(c.handleOutcomeFailed))
	bus.Subscribe(events.CallTriggered{}.EventName(), events.HandlerFunc(c.handleCallTriggered))
}

func (c *Collectors) handleOutcomeRecorded(_ context.Context, event events.Event) error {
	e, ok := event.(events.CallOutcomeRecorded)
	if !ok {
		return nil
	}
	c.OutcomesRecorded.WithLabelValues(dispositionLabel(e.Disposition), e.Status, e.ResolvedBy).Inc()
	c.CallMinutes.Observe(e.DurationMinutes)
	c.CallCost.Add(e.Cost)
	return nil
}

// dispositionLabel folds "Other: <end reason>" into one series; end reasons are
// provider free text.
func dispositionLabel(disposition string) string {
	if strings.HasPrefix(disposition, "Other:") {
		return "Other"
	}
	return disposition
}

func (c *Collectors) handleUnresolved(_ context.Context, event events.Event) error {
	e, ok := event.(events.CallUnresolved)
	if !ok {
		return nil
	}
	label := "false"
	if e.HadPhone {
		label = "true"
	}
	c.Unresolved.WithLabelValues(label).Inc()
	return nil
}

func (c *Collectors) handleOutcomeFailed(_ context.Context, event events.Event) error {
	if _, ok := event.(events.CallOutcomeFailed); ok {
		c.UpdateFailures.Inc()
	}
	return nil
}

func (c *Collectors) handleCallTriggered(_ context.Context, event events.Event) error {
	if _, ok := event.(events.CallTriggered); ok {
		c.CallsTriggered.Inc()
	}
	return nil
}

// Name returns the module identifier.
func (c *Collectors) Name() string {
	return "metrics"
}

// RegisterRoutes mounts GET /metrics on the engine.
func (c *Collectors) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})))
}

var _ apphttp.Module = (*Collectors)(nil)
