package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("lead not found"), http.StatusNotFound},
		{Validation("bad"), http.StatusBadRequest},
		{BadRequest("bad"), http.StatusBadRequest},
		{Upstream("provider down", errors.New("boom")), http.StatusBadGateway},
		{Internal("oops", errors.New("boom")), http.StatusInternalServerError},
		{New(KindUnknown, "?"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Fatalf("%q: expected status %d, got %d", tc.err.Message, tc.want, got)
		}
	}
}

func TestGetKindFollowsWrappedChain(t *testing.T) {
	err := fmt.Errorf("trigger call: %w", NotFound("lead not found"))

	if GetKind(err) != KindNotFound {
		t.Fatalf("expected wrapped error to report KindNotFound, got %v", GetKind(err))
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatal("expected plain error to report KindUnknown")
	}
}

func TestWithOpPrefixesMessage(t *testing.T) {
	err := Internal("failed to load lead", errors.New("conn reset")).WithOp("calls.TriggerCall")

	if got := err.Error(); got != "calls.TriggerCall: failed to load lead: conn reset" {
		t.Fatalf("unexpected error string %q", got)
	}
	if !errors.Is(err, err.Err) {
		t.Fatal("expected cause to stay reachable through Unwrap")
	}
}
