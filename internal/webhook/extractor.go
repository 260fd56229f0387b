package webhook

// Candidate paths per field, highest priority first. The provider nests the same
// datum differently depending on event type and API version.
var (
	contactIDPaths = []string{
		"metadata.contactId",
		"message.artifact.assistantOverrides.metadata.contactId",
		"assistantOverrides.metadata.contactId",
		"customer.contactId",
		"message.assistantOverrides.metadata.contactId",
		"message.metadata.contactId",
	}
	phoneNumberPaths = []string{
		"customer.number",
		"message.artifact.customer.number",
		"message.customer.number",
		"to",
		"message.to",
	}
	customerNamePaths = []string{
		"customer.name",
		"message.artifact.customer.name",
		"message.customer.name",
	}
	recordingURLPaths = []string{
		"recordingUrl",
		"message.recordingUrl",
		"recording_url",
		"message.recording_url",
		"message.artifact.recordingUrl",
		"call.recordingUrl",
		"message.call.recordingUrl",
		"recording.url",
		"message.recording.url",
	}
	durationPaths = []string{
		"durationSeconds",
		"message.durationSeconds",
		"duration",
		"message.duration",
	}
	callIDPaths = []string{
		"message.call.id",
		"call.id",
		"callId",
		"message.callId",
	}
	endReasonPaths = []string{
		"endedReason",
		"end_reason",
		"message.endedReason",
		"message.end_reason",
		"call.endedReason",
		"message.call.endedReason",
	}
	summaryPaths = []string{
		"summary",
		"message.summary",
		"analysis.summary",
		"message.analysis.summary",
	}
	transcriptPaths = []string{
		"transcript",
		"message.transcript",
		"artifact.transcript",
		"message.artifact.transcript",
	}
	analysisPaths = []string{
		"analysis",
		"message.analysis",
	}
	successPaths = []string{
		"success",
		"message.success",
	}
	statusPaths = []string{
		"status",
		"message.status",
		"call.status",
		"message.call.status",
	}
)

// CallFacts is the normalized view of one webhook. Empty strings mean absent.
type CallFacts struct {
	CallID          string
	ContactID       string
	PhoneNumber     string
	CustomerName    string
	RecordingURL    string
	DurationSeconds float64
	EndReason       string
	Summary         string
	Transcript      string
	Analysis        map[string]any
	Success         *bool
	RawStatus       string
}

// DurationMinutes converts the extracted duration for cost and storage.
func (f CallFacts) DurationMinutes() float64 {
	return f.DurationSeconds / 60
}

// ExtractCallFacts runs every extractor over the payload.
func ExtractCallFacts(p Payload) CallFacts {
	facts := CallFacts{
		CallID:          ExtractCallID(p),
		ContactID:       ExtractContactID(p),
		PhoneNumber:     ExtractPhoneNumber(p),
		CustomerName:    ExtractCustomerName(p),
		RecordingURL:    ExtractRecordingURL(p),
		DurationSeconds: ExtractDuration(p),
	}
	facts.EndReason, _ = p.FirstString(endReasonPaths)
	facts.Summary, _ = p.FirstString(summaryPaths)
	facts.Transcript, _ = p.FirstString(transcriptPaths)
	facts.Analysis, _ = p.FirstObject(analysisPaths)
	facts.RawStatus, _ = p.FirstString(statusPaths)
	if success, ok := p.FirstBool(successPaths); ok {
		facts.Success = &success
	}
	return facts
}

func ExtractContactID(p Payload) string {
	v, _ := p.FirstString(contactIDPaths)
	return v
}

func ExtractPhoneNumber(p Payload) string {
	v, _ := p.FirstString(phoneNumberPaths)
	return v
}

func ExtractCustomerName(p Payload) string {
	v, _ := p.FirstString(customerNamePaths)
	return v
}

func ExtractRecordingURL(p Payload) string {
	v, _ := p.FirstString(recordingURLPaths)
	return v
}

func ExtractCallID(p Payload) string {
	v, _ := p.FirstString(callIDPaths)
	return v
}

// ExtractDuration returns the call length in seconds, 0 when no path has a
// positive value.
func ExtractDuration(p Payload) float64 {
	v, _ := p.FirstPositiveNumber(durationPaths)
	return v
}
