package webhook

import (
	"context"
	"fmt"
	"time"

	"outbound_ai_backend/internal/events"
	"outbound_ai_backend/internal/leads/repository"
	"outbound_ai_backend/internal/leads/transport"
	"outbound_ai_backend/platform/logger"
)

const (
	msgInvalidPayload  = "Invalid webhook payload"
	msgDuplicate       = "Duplicate webhook ignored"
	msgNoIdentifier    = "Webhook received, but no contact id or phone number was provided"
	msgNoMatch         = "Webhook received, but no matching lead was found"
	msgLookupFailed    = "Failed to look up lead"
	msgUpdateFailed    = "Failed to update lead"
	msgOutcomeRecorded = "Call outcome recorded"
	msgInternalError   = "Internal error while processing webhook"
	msgPayloadTooLarge = "Webhook payload too large"

	errInternal = "unexpected error"
)

// Response is the body returned to the voice provider. It is always sent with 200.
type Response struct {
	Success     bool                     `json:"success"`
	Message     string                   `json:"message"`
	Error       string                   `json:"error,omitempty"`
	LeadID      string                   `json:"leadId,omitempty"`
	Disposition string                   `json:"disposition,omitempty"`
	Status      string                   `json:"status,omitempty"`
	Data        []transport.LeadResponse `json:"data,omitempty"`
}

func failure(message string, err error) Response {
	resp := Response{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// Options tune the service. Zero values select defaults.
type Options struct {
	CostPerMinute float64
	RecentWindow  int
	StoreTimeout  time.Duration
}

// Service reconciles call webhooks against leads.
type Service struct {
	leads         repository.LeadStore
	resolver      *Resolver
	guard         DuplicateGuard
	eventBus      events.Bus
	costPerMinute float64
	storeTimeout  time.Duration
	log           *logger.Logger
}

// NewService creates a webhook service. A nil guard disables duplicate detection.
func NewService(leads repository.LeadStore, guard DuplicateGuard, eventBus events.Bus, opts Options, log *logger.Logger) *Service {
	if guard == nil {
		guard = noopGuard{}
	}
	if opts.CostPerMinute <= 0 {
		opts.CostPerMinute = DefaultCostPerMinute
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	return &Service{
		leads:         leads,
		resolver:      NewResolver(leads, opts.RecentWindow, opts.StoreTimeout, log),
		guard:         guard,
		eventBus:      eventBus,
		costPerMinute: opts.CostPerMinute,
		storeTimeout:  opts.StoreTimeout,
		log:           log,
	}
}

// Process handles one raw webhook body. It never returns an error: every failure
// is folded into the Response.
func (s *Service) Process(ctx context.Context, body []byte) Response {
	payload, err := ParsePayload(body)
	if err != nil {
		s.log.WithContext(ctx).Warn("webhook: invalid payload", "error", err)
		return failure(msgInvalidPayload, err)
	}

	facts := ExtractCallFacts(payload)
	if facts.CallID != "" {
		ctx = context.WithValue(ctx, logger.CallIDKey, facts.CallID)
	}
	log := s.log.WithContext(ctx)
	log.Debug("webhook: extracted call facts",
		"contactId", facts.ContactID,
		"phone", facts.PhoneNumber,
		"customerName", facts.CustomerName,
		"endedReason", facts.EndReason,
		"durationSeconds", facts.DurationSeconds,
	)

	if s.isDuplicate(ctx, facts.CallID) {
		log.Info("webhook: duplicate delivery ignored")
		return Response{Success: true, Message: msgDuplicate}
	}

	outcome := NewLeadUpdateData(facts, s.costPerMinute)
	log.Info("webhook: call classified",
		"disposition", string(outcome.Disposition),
		"status", string(outcome.Status),
		"durationMinutes", outcome.Duration,
		"cost", outcome.Cost,
	)

	if facts.ContactID == "" && facts.PhoneNumber == "" {
		log.Warn("webhook: no contact id or phone number, lead not updated")
		s.publishUnresolved(ctx, facts, outcome)
		return Response{Success: true, Message: msgNoIdentifier, Disposition: string(outcome.Disposition), Status: string(outcome.Status)}
	}

	resolution, err := s.resolver.Resolve(ctx, facts.ContactID, facts.PhoneNumber, facts.CustomerName)
	if !resolution.Resolved() {
		if err != nil {
			log.DatabaseError("resolve lead", err)
			return failure(msgLookupFailed, err)
		}
		log.Warn("webhook: no lead matched", "phone", facts.PhoneNumber, "customerName", facts.CustomerName)
		s.publishUnresolved(ctx, facts, outcome)
		return Response{Success: true, Message: msgNoMatch, Disposition: string(outcome.Disposition), Status: string(outcome.Status)}
	}
	log.Info("webhook: lead resolved", "leadId", resolution.LeadID, "tier", string(resolution.Tier))

	updated, err := s.applyOutcome(ctx, resolution.LeadID, outcome)
	if err != nil {
		log.DatabaseError("update lead", err)
		s.eventBus.Publish(ctx, events.CallOutcomeFailed{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    resolution.LeadID,
			CallID:    facts.CallID,
			Reason:    err.Error(),
		})
		resp := failure(msgUpdateFailed, err)
		resp.LeadID = resolution.LeadID
		return resp
	}

	s.markProcessed(ctx, facts.CallID)
	s.eventBus.Publish(ctx, events.CallOutcomeRecorded{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          resolution.LeadID,
		CallID:          facts.CallID,
		Disposition:     string(outcome.Disposition),
		Status:          string(outcome.Status),
		DurationMinutes: outcome.Duration,
		Cost:            outcome.Cost,
		ResolvedBy:      string(resolution.Tier),
	})

	return Response{
		Success:     true,
		Message:     msgOutcomeRecorded,
		LeadID:      resolution.LeadID,
		Disposition: string(outcome.Disposition),
		Status:      string(outcome.Status),
		Data:        transport.ToLeadResponses(updated),
	}
}

func (s *Service) applyOutcome(ctx context.Context, leadID string, outcome LeadUpdateData) ([]repository.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	updated, err := s.leads.Update(ctx, leadID, outcome.Params())
	if err != nil {
		return nil, fmt.Errorf("update lead %s: %w", leadID, err)
	}
	return updated, nil
}

// isDuplicate fails open: a guard error counts as not seen.
func (s *Service) isDuplicate(ctx context.Context, callID string) bool {
	if callID == "" {
		return false
	}
	seen, err := s.guard.Seen(ctx, callID)
	if err != nil {
		s.log.WithContext(ctx).Warn("webhook: duplicate check failed", "error", err)
		return false
	}
	return seen
}

func (s *Service) markProcessed(ctx context.Context, callID string) {
	if callID == "" {
		return
	}
	if err := s.guard.Mark(ctx, callID); err != nil {
		s.log.WithContext(ctx).Warn("webhook: failed to mark call as processed", "error", err)
	}
}

func (s *Service) publishUnresolved(ctx context.Context, facts CallFacts, outcome LeadUpdateData) {
	s.eventBus.Publish(ctx, events.CallUnresolved{
		BaseEvent:   events.NewBaseEvent(),
		CallID:      facts.CallID,
		Disposition: string(outcome.Disposition),
		HadPhone:    facts.PhoneNumber != "",
	})
}
