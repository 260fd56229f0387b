package webhook

import (
	"strings"

	"outbound_ai_backend/internal/leads/repository"
)

// CallStatus is the binary completion state recorded on a lead.
type CallStatus string

const (
	CallStatusCompleted CallStatus = repository.StatusCompleted
	CallStatusFailed    CallStatus = repository.StatusFailed
)

// DefaultCostPerMinute is the dollar rate applied to call minutes.
const DefaultCostPerMinute = 0.99

// DetermineCallStatus reports Failed when the provider flagged the call as
// unsuccessful or its status mentions a failure.
func DetermineCallStatus(success *bool, rawStatus string) CallStatus {
	if success != nil && !*success {
		return CallStatusFailed
	}
	if strings.Contains(strings.ToLower(rawStatus), "fail") {
		return CallStatusFailed
	}
	return CallStatusCompleted
}

// CalculateCallCost prices durationMinutes at DefaultCostPerMinute.
func CalculateCallCost(durationMinutes float64) float64 {
	return CalculateCallCostAt(durationMinutes, DefaultCostPerMinute)
}

// CalculateCallCostAt prices durationMinutes at ratePerMinute. The result is not rounded.
func CalculateCallCostAt(durationMinutes, ratePerMinute float64) float64 {
	if durationMinutes <= 0 {
		return 0
	}
	return durationMinutes * ratePerMinute
}

// LeadUpdateData is the outcome written to one lead.
type LeadUpdateData struct {
	Status       CallStatus
	Disposition  Disposition
	Duration     float64 // minutes
	Cost         float64 // dollars
	RecordingURL string
}

// NewLeadUpdateData derives the full outcome of a call from its extracted facts.
func NewLeadUpdateData(facts CallFacts, ratePerMinute float64) LeadUpdateData {
	minutes := facts.DurationMinutes()
	return LeadUpdateData{
		Status:       DetermineCallStatus(facts.Success, facts.RawStatus),
		Disposition:  ClassifyDisposition(facts.EndReason, facts.Summary, facts.Transcript, facts.Analysis),
		Duration:     minutes,
		Cost:         CalculateCallCostAt(minutes, ratePerMinute),
		RecordingURL: facts.RecordingURL,
	}
}

// Params converts the outcome to a partial repository update. The recording URL
// is only written when one was reported.
func (d LeadUpdateData) Params() repository.UpdateLeadParams {
	status := string(d.Status)
	disposition := string(d.Disposition)
	duration := d.Duration
	cost := d.Cost

	params := repository.UpdateLeadParams{
		Status:      &status,
		Disposition: &disposition,
		Duration:    &duration,
		Cost:        &cost,
	}
	if d.RecordingURL != "" {
		url := d.RecordingURL
		params.RecordingURL = &url
	}
	return params
}
