package community

import (
	"errors"
	"testing"
)

func TestDecide_PendingOnly(t *testing.T) {
	if err := Decide(StatusPending, StatusApproved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Decide(StatusPending, StatusRejected); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecide_DecisionsAreFinal(t *testing.T) {
	for _, current := range []Status{StatusApproved, StatusRejected} {
		for _, decision := range []Status{StatusApproved, StatusRejected} {
			err := Decide(current, decision)
			if err == nil {
				t.Errorf("expected decision on %s community to fail", current)
				continue
			}
			var derr *DecisionError
			if !errors.As(err, &derr) {
				t.Errorf("expected DecisionError, got %T", err)
			}
		}
	}
}

func TestDecide_RejectsBogusDecision(t *testing.T) {
	if err := Decide(StatusPending, StatusPending); err == nil {
		t.Fatalf("expected pending to be an invalid decision")
	}
}
