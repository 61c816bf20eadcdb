package booking

import (
	"errors"
	"testing"
)

func TestTransition_AllowedEdges(t *testing.T) {
	allowed := [][2]Status{
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusApproved, StatusCompleted},
		{StatusApproved, StatusCancelled},
	}
	for _, e := range allowed {
		if err := Transition(e[0], e[1]); err != nil {
			t.Errorf("expected %s -> %s to be allowed, got %v", e[0], e[1], err)
		}
	}
}

func TestTransition_NoOtherEdgeIsReachable(t *testing.T) {
	all := []Status{StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled}
	allowed := map[[2]Status]bool{
		{StatusPending, StatusApproved}:   true,
		{StatusPending, StatusRejected}:   true,
		{StatusApproved, StatusCompleted}: true,
		{StatusApproved, StatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			err := Transition(from, to)
			if allowed[[2]Status{from, to}] {
				continue
			}
			if err == nil {
				t.Errorf("expected %s -> %s to be rejected", from, to)
				continue
			}
			var terr *TransitionError
			if !errors.As(err, &terr) {
				t.Errorf("expected TransitionError for %s -> %s, got %T", from, to, err)
			}
		}
	}
}

func TestTransition_CompletingRejectedBookingFails(t *testing.T) {
	err := Transition(StatusRejected, StatusCompleted)
	if err == nil {
		t.Fatalf("expected rejection")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransitionError, got %T", err)
	}
	if terr.From != StatusRejected || terr.To != StatusCompleted {
		t.Fatalf("unexpected edge in error: %s -> %s", terr.From, terr.To)
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusRejected, StatusCompleted, StatusCancelled} {
		if !IsTerminal(s) {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusApproved} {
		if IsTerminal(s) {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("approved"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseStatus("Approved"); err == nil {
		t.Fatalf("expected case-sensitive parse to fail")
	}
	if _, err := ParseStatus("shipped"); err == nil {
		t.Fatalf("expected unknown status to fail")
	}
}
