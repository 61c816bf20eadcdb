package payment

import (
	"errors"
	"testing"
)

func TestParseMethod(t *testing.T) {
	for _, s := range []string{"bank_transfer", "mobile_money", "cash"} {
		m, err := ParseMethod(s)
		if err != nil {
			t.Fatalf("ParseMethod(%q): %v", s, err)
		}
		if string(m) != s {
			t.Fatalf("ParseMethod(%q) = %q", s, m)
		}
	}

	for _, s := range []string{"", "card", "BANK_TRANSFER", "bank transfer"} {
		if _, err := ParseMethod(s); err == nil {
			t.Errorf("ParseMethod(%q): expected error", s)
		}
	}
}

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
				t.Errorf("expected decision on %s payment to fail", current)
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

func TestNewReceiptSerial(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		s := NewReceiptSerial(2026)
		if len(s) != len("RCP-2026-")+8 {
			t.Fatalf("unexpected serial %q", s)
		}
		if s[:9] != "RCP-2026-" {
			t.Fatalf("unexpected prefix in %q", s)
		}
		if seen[s] {
			t.Fatalf("serial collision: %q", s)
		}
		seen[s] = true
	}
}
