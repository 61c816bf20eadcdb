package community

import "fmt"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// DecisionError reports a review attempt on a community that has already been
// decided. Communities are reviewed exactly once; there is no re-review flow.
type DecisionError struct {
	Current Status
}

func (e *DecisionError) Error() string {
	return fmt.Sprintf("community already %s; decisions are final", e.Current)
}

// Decide validates an admin decision against the current status.
func Decide(current, decision Status) error {
	if decision != StatusApproved && decision != StatusRejected {
		return fmt.Errorf("invalid decision: %s", decision)
	}
	if current != StatusPending {
		return &DecisionError{Current: current}
	}
	return nil
}
