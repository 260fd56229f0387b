// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"outbound_ai_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Call Webhook Events
// =============================================================================

// CallOutcomeRecorded is published after a webhook outcome was written to a lead.
type CallOutcomeRecorded struct {
	BaseEvent
	LeadID          string  `json:"leadId"`
	CallID          string  `json:"callId,omitempty"`
	Disposition     string  `json:"disposition"`
	Status          string  `json:"status"`
	DurationMinutes float64 `json:"durationMinutes"`
	Cost            float64 `json:"cost"`
	ResolvedBy      string  `json:"resolvedBy"` // "contact_id", "exact_phone", "phone_suffix", "recent_scan", "name_phone"
}

func (e CallOutcomeRecorded) EventName() string { return "calls.outcome.recorded" }

// CallUnresolved is published when a webhook could not be matched to a lead.
type CallUnresolved struct {
	BaseEvent
	CallID      string `json:"callId,omitempty"`
	Disposition string `json:"disposition"`
	HadPhone    bool   `json:"hadPhone"`
}

func (e CallUnresolved) EventName() string { return "calls.outcome.unresolved" }

// CallOutcomeFailed is published when the lead update itself failed.
type CallOutcomeFailed struct {
	BaseEvent
	LeadID string `json:"leadId"`
	CallID string `json:"callId,omitempty"`
	Reason string `json:"reason"`
}

func (e CallOutcomeFailed) EventName() string { return "calls.outcome.failed" }

// =============================================================================
// Call Trigger Events
// =============================================================================

// CallTriggered is published when an outbound call was accepted by the provider.
type CallTriggered struct {
	BaseEvent
	LeadID      string `json:"leadId"`
	CallID      string `json:"callId"`
	AssistantID string `json:"assistantId"`
}

func (e CallTriggered) EventName() string { return "calls.triggered" }
