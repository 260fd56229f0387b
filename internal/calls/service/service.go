package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"outbound_ai_backend/internal/calls/transport"
	"outbound_ai_backend/internal/events"
	"outbound_ai_backend/internal/leads/repository"
	"outbound_ai_backend/internal/voice"
	"outbound_ai_backend/platform/apperr"
	"outbound_ai_backend/platform/logger"
	"outbound_ai_backend/platform/phone"
)

const (
	contactIDMetadataKey = "contactId"
	opTriggerCall        = "calls.TriggerCall"
)

// LeadStore is the part of the lead store the trigger flow needs.
type LeadStore interface {
	GetByID(ctx context.Context, id string) (repository.Lead, error)
	Update(ctx context.Context, id string, params repository.UpdateLeadParams) ([]repository.Lead, error)
}

// CallCreator starts provider calls. Satisfied by voice.Client.
type CallCreator interface {
	CreateCall(ctx context.Context, req voice.CreateCallRequest) (voice.Call, error)
}

// Settings configure the trigger flow.
type Settings struct {
	DefaultAssistantID string
	PhoneRegion        string
	StoreTimeout       time.Duration
}

// Service triggers outbound calls for pending leads.
type Service struct {
	leads    LeadStore
	voice    CallCreator
	eventBus events.Bus
	settings Settings
	log      *logger.Logger
}

// New creates a new calls service.
func New(leads LeadStore, creator CallCreator, eventBus events.Bus, settings Settings, log *logger.Logger) *Service {
	if settings.StoreTimeout <= 0 {
		settings.StoreTimeout = 5 * time.Second
	}
	if settings.PhoneRegion == "" {
		settings.PhoneRegion = phone.DefaultRegion
	}
	return &Service{leads: leads, voice: creator, eventBus: eventBus, settings: settings, log: log}
}

// TriggerCall validates that the lead can be called, asks the provider to call it
// and marks the lead In Progress. The lead id travels with the call as contactId
// so the end-of-call webhook can find it again.
func (s *Service) TriggerCall(ctx context.Context, req transport.TriggerCallRequest) (transport.TriggerCallResponse, error) {
	lead, err := s.getLead(ctx, req.LeadID)
	if err != nil {
		return transport.TriggerCallResponse{}, err
	}

	if lead.Status != repository.StatusPending {
		return transport.TriggerCallResponse{}, apperr.BadRequest("lead is not pending").
			WithDetails(map[string]string{"status": lead.Status}).WithOp(opTriggerCall)
	}
	if strings.TrimSpace(lead.PhoneID) == "" {
		return transport.TriggerCallResponse{}, apperr.BadRequest("lead has no phone id").WithOp(opTriggerCall)
	}

	number := phone.NormalizeE164(lead.PhoneNumber, s.settings.PhoneRegion)
	if number == "" {
		return transport.TriggerCallResponse{}, apperr.BadRequest("lead has no phone number").WithOp(opTriggerCall)
	}

	assistantID := strings.TrimSpace(req.AssistantID)
	if assistantID == "" {
		assistantID = s.settings.DefaultAssistantID
	}
	if assistantID == "" {
		return transport.TriggerCallResponse{}, apperr.Validation("assistantId is required when no default assistant is configured").WithOp(opTriggerCall)
	}

	call, err := s.voice.CreateCall(ctx, voice.CreateCallRequest{
		AssistantID:   assistantID,
		PhoneNumberID: lead.PhoneID,
		Customer:      voice.Customer{Number: number, Name: lead.Name},
		AssistantOverrides: &voice.AssistantOverrides{
			Metadata: map[string]string{contactIDMetadataKey: lead.ID},
		},
	})
	if err != nil {
		s.log.Error("calls: voice provider rejected call", "leadId", lead.ID, "error", err)
		return transport.TriggerCallResponse{}, apperr.Upstream("failed to start call", err).WithOp(opTriggerCall)
	}

	if err := s.markInProgress(ctx, lead.ID); err != nil {
		// The call is already dialling; the webhook will still record its outcome.
		s.log.Error("calls: failed to mark lead in progress", "leadId", lead.ID, "callId", call.ID, "error", err)
	}

	s.eventBus.Publish(ctx, events.CallTriggered{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		CallID:      call.ID,
		AssistantID: assistantID,
	})

	return transport.TriggerCallResponse{
		Success: true,
		Message: "Call started",
		CallID:  call.ID,
		LeadID:  lead.ID,
	}, nil
}

func (s *Service) getLead(ctx context.Context, id string) (repository.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, s.settings.StoreTimeout)
	defer cancel()

	lead, err := s.leads.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Lead{}, apperr.NotFound("lead not found").WithOp(opTriggerCall)
	}
	if err != nil {
		s.log.WithContext(ctx).DatabaseError("load lead", err)
		return repository.Lead{}, apperr.Internal("failed to load lead", err).WithOp(opTriggerCall)
	}
	return lead, nil
}

func (s *Service) markInProgress(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.settings.StoreTimeout)
	defer cancel()

	status := repository.StatusInProgress
	_, err := s.leads.Update(ctx, id, repository.UpdateLeadParams{Status: &status})
	return err
}
