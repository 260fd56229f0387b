package phone

import "testing"

func TestDigits(t *testing.T) {
	if got := Digits("+1 (555) 123-4567"); got != "15551234567" {
		t.Fatalf("expected 15551234567, got %q", got)
	}
	if got := Digits("n/a"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestLastDigits(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"+1 (555) 123-4567", 10, "5551234567"},
		{"555-1234", 10, "5551234"},
		{"5551112222", 4, "2222"},
		{"", 4, ""},
	}
	for _, tc := range cases {
		if got := LastDigits(tc.in, tc.n); got != tc.want {
			t.Fatalf("LastDigits(%q, %d): expected %q, got %q", tc.in, tc.n, tc.want, got)
		}
	}
}

func TestNormalizeE164(t *testing.T) {
	if got := NormalizeE164("(650) 253-0000", "US"); got != "+16502530000" {
		t.Fatalf("expected +16502530000, got %q", got)
	}
	if got := NormalizeE164("  not a phone ", ""); got != "not a phone" {
		t.Fatalf("expected trimmed passthrough, got %q", got)
	}
}
