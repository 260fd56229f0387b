package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Disposition labels why or how a call ended.
type Disposition string

const (
	DispositionAnsweringMachine    Disposition = "Answering Machine"
	DispositionNoAnswer            Disposition = "No Answer"
	DispositionWarmTransferEdu     Disposition = "Warm Transfer - Education"
	DispositionWarmTransferJob     Disposition = "Warm Transfer - Job"
	DispositionWarmTransfer        Disposition = "Warm Transfer"
	DispositionDoNotContact        Disposition = "Do Not Contact"
	DispositionLanguageBarrier     Disposition = "Language Barrier"
	DispositionNotQualified        Disposition = "Not Qualified"
	DispositionNotInterested       Disposition = "Not Interested"
	DispositionHangUp              Disposition = "Hang Up"
	DispositionUnknown             Disposition = "Unknown"
	otherDispositionPrefix                     = "Other: "
)

// OtherDisposition carries an unrecognised end reason through verbatim.
func OtherDisposition(endReason string) Disposition {
	return Disposition(otherDispositionPrefix + endReason)
}

// Keyword lists. Matching is substring-based on lowercased text.
var (
	answeringMachineContent = []string{"leave a message", "at the tone", "voicemail", "can't take your call", "after the beep", "recording"}
	answeringMachineReasons = []string{"voicemail"}
	noAnswerReasons         = []string{"customer did not answer", "customer-did-not-answer", "twilio failed connection", "no-answer", "no_answer", "timeout"}
	transferReasons         = []string{"assistant forwarded call", "assistant-forwarded-call", "forwarded", "transferred"}
	educationTransferHints  = []string{"education consultant", "education advisor", "forwarded to education", "transferred to education", "education", "school", "degree"}
	jobTransferHints        = []string{"job consultant", "job advisor", "forwarded to job", "transferred to job", "employment", "career"}
	doNotContactContent     = []string{"do not call", "don't call", "remove me", "stop calling", "take me off", "unsubscribe", "do not contact"}
	languageBarrierContent  = []string{"language barrier", "no english", "don't speak english", "habla español", "communication issue", "language problem", "can't understand"}
	notQualifiedContent     = []string{
		"not qualified", "qualification failed", "no high school diploma", "no ged", "under 18",
		"not a us citizen", "no green card",
		"currently enrolled in school", "currently enrolled in college", "still in school", "still in college",
	}
	notInterestedContent = []string{"not interested", "no thanks", "not right now", "not looking", "not for me", "don't want", "no interest"}
	hangUpReasons        = []string{"customer ended call", "customer-ended-call", "hung up", "disconnected"}
)

// callSignals holds the lowercased text the rules inspect.
type callSignals struct {
	reason  string
	content string
}

// dispositionRule is one step of the classifier; the first rule whose match
// returns true decides the label.
type dispositionRule struct {
	match func(s callSignals) bool
	label func(s callSignals) Disposition
}

func fixed(d Disposition) func(callSignals) Disposition {
	return func(callSignals) Disposition { return d }
}

// dispositionRules is evaluated top to bottom. Reordering changes classification
// results for overlapping phrasing.
var dispositionRules = []dispositionRule{
	{
		match: func(s callSignals) bool {
			return containsAny(s.content, answeringMachineContent) || containsAny(s.reason, answeringMachineReasons)
		},
		label: fixed(DispositionAnsweringMachine),
	},
	{
		match: func(s callSignals) bool { return containsAny(s.reason, noAnswerReasons) },
		label: fixed(DispositionNoAnswer),
	},
	{
		match: func(s callSignals) bool { return containsAny(s.reason, transferReasons) },
		label: func(s callSignals) Disposition {
			switch {
			case containsAny(s.content, educationTransferHints):
				return DispositionWarmTransferEdu
			case containsAny(s.content, jobTransferHints):
				return DispositionWarmTransferJob
			default:
				return DispositionWarmTransfer
			}
		},
	},
	{
		match: func(s callSignals) bool { return containsAny(s.content, doNotContactContent) },
		label: fixed(DispositionDoNotContact),
	},
	{
		match: func(s callSignals) bool { return containsAny(s.content, languageBarrierContent) },
		label: fixed(DispositionLanguageBarrier),
	},
	{
		match: func(s callSignals) bool { return containsAny(s.content, notQualifiedContent) },
		label: fixed(DispositionNotQualified),
	},
	{
		match: func(s callSignals) bool { return containsAny(s.content, notInterestedContent) },
		label: fixed(DispositionNotInterested),
	},
	{
		match: func(s callSignals) bool { return containsAny(s.reason, hangUpReasons) },
		label: fixed(DispositionHangUp),
	},
}

// ClassifyDisposition maps the end reason, summary, transcript and structured
// analysis of a call to exactly one Disposition.
func ClassifyDisposition(endReason, summary, transcript string, analysis map[string]any) Disposition {
	signals := callSignals{
		reason:  strings.ToLower(endReason),
		content: buildContent(summary, transcript, analysis),
	}

	for _, rule := range dispositionRules {
		if rule.match(signals) {
			return rule.label(signals)
		}
	}

	if strings.TrimSpace(endReason) != "" {
		return OtherDisposition(endReason)
	}
	return DispositionUnknown
}

// buildContent joins summary, transcript, successEvaluation and the JSON form of
// structuredData into one lowercased string.
func buildContent(summary, transcript string, analysis map[string]any) string {
	parts := []string{summary, transcript}
	if analysis != nil {
		if eval, ok := analysis["successEvaluation"]; ok && eval != nil {
			parts = append(parts, fmt.Sprint(eval))
		}
		if data, ok := analysis["structuredData"]; ok && data != nil {
			if encoded, err := json.Marshal(data); err == nil {
				parts = append(parts, string(encoded))
			}
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func containsAny(haystack string, needles []string) bool {
	if haystack == "" {
		return false
	}
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
