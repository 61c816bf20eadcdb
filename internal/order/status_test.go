package order

import (
	"errors"
	"testing"
)

func TestTransition_Edges(t *testing.T) {
	all := []Status{StatusPending, StatusProcessing, StatusShipped, StatusCancelled}
	allowed := map[[2]Status]bool{
		{StatusPending, StatusProcessing}:   true,
		{StatusPending, StatusCancelled}:    true,
		{StatusProcessing, StatusShipped}:   true,
		{StatusProcessing, StatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			err := Transition(from, to)
			if allowed[[2]Status{from, to}] {
				if err != nil {
					t.Errorf("expected %s -> %s to be allowed, got %v", from, to, err)
				}
				continue
			}
			var terr *TransitionError
			if !errors.As(err, &terr) {
				t.Errorf("expected TransitionError for %s -> %s, got %v", from, to, err)
			}
		}
	}
}

func TestTransition_ShippedIsTerminal(t *testing.T) {
	if !IsTerminal(StatusShipped) || !IsTerminal(StatusCancelled) {
		t.Fatalf("expected shipped and cancelled to be terminal")
	}
	if err := Transition(StatusShipped, StatusPending); err == nil {
		t.Fatalf("expected reopening a shipped order to fail")
	}
}
