package transport

// TriggerCallRequest asks the voice provider to call one lead.
type TriggerCallRequest struct {
	LeadID      string `json:"leadId" validate:"required,uuid"`
	AssistantID string `json:"assistantId" validate:"omitempty,max=100"`
}

// TriggerCallResponse reports the provider call that was started.
type TriggerCallResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	CallID  string `json:"callId"`
	LeadID  string `json:"leadId"`
}
