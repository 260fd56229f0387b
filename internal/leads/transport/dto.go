package transport

import (
	"time"

	"outbound_ai_backend/internal/leads/repository"
)

// LeadResponse is the JSON shape of a lead echoed back to API callers.
type LeadResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	Status       string    `json:"status"`
	Disposition  *string   `json:"disposition"`
	Duration     *float64  `json:"duration"`
	Cost         *float64  `json:"cost"`
	RecordingURL *string   `json:"recording_url"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToLeadResponse maps a repository lead to its API shape.
func ToLeadResponse(lead repository.Lead) LeadResponse {
	return LeadResponse{
		ID:           lead.ID,
		Name:         lead.Name,
		PhoneNumber:  lead.PhoneNumber,
		Status:       lead.Status,
		Disposition:  lead.Disposition,
		Duration:     lead.Duration,
		Cost:         lead.Cost,
		RecordingURL: lead.RecordingURL,
		UpdatedAt:    lead.UpdatedAt,
	}
}

// ToLeadResponses maps a slice of leads.
func ToLeadResponses(leads []repository.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, ToLeadResponse(lead))
	}
	return out
}
