package webhook

import (
	"math"
	"testing"
)

func boolPtr(v bool) *bool { return &v }

func TestDetermineCallStatus(t *testing.T) {
	tests := []struct {
		name    string
		success *bool
		status  string
		want    CallStatus
	}{
		{"explicit failure", boolPtr(false), "ok", CallStatusFailed},
		{"status mentions failure", boolPtr(true), "call failed", CallStatusFailed},
		{"status case insensitive", nil, "FAILED", CallStatusFailed},
		{"success", boolPtr(true), "ok", CallStatusCompleted},
		{"no signals", nil, "", CallStatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineCallStatus(tt.success, tt.status); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCalculateCallCost(t *testing.T) {
	if got := CalculateCallCost(10); math.Abs(got-9.90) > 1e-9 {
		t.Fatalf("expected 9.90, got %v", got)
	}
	if got := CalculateCallCost(0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := CalculateCallCostAt(2, 1.5); got != 3 {
		t.Fatalf("expected 3 at custom rate, got %v", got)
	}
}

func TestLeadUpdateDataParams(t *testing.T) {
	data := LeadUpdateData{
		Status:      CallStatusCompleted,
		Disposition: DispositionHangUp,
		Duration:    1.5,
		Cost:        1.485,
	}
	params := data.Params()
	if params.RecordingURL != nil {
		t.Fatal("expected recording url to be left untouched when absent")
	}
	if *params.Status != "Completed" || *params.Disposition != "Hang Up" || *params.Duration != 1.5 || *params.Cost != 1.485 {
		t.Fatalf("unexpected params %+v", params)
	}

	data.RecordingURL = "https://rec.example/a.wav"
	if got := data.Params().RecordingURL; got == nil || *got != "https://rec.example/a.wav" {
		t.Fatalf("expected recording url, got %v", got)
	}
}
