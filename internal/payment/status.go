package payment

import "fmt"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Method string

const (
	MethodBankTransfer Method = "bank_transfer"
	MethodMobileMoney  Method = "mobile_money"
	MethodCash         Method = "cash"
)

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodBankTransfer, MethodMobileMoney, MethodCash:
		return Method(s), nil
	default:
		return "", fmt.Errorf("unknown payment method: %s", s)
	}
}

// DecisionError reports a verification attempt on an already-decided payment.
type DecisionError struct {
	Current Status
}

func (e *DecisionError) Error() string {
	return fmt.Sprintf("payment already %s; decisions are final", e.Current)
}

func Decide(current, decision Status) error {
	if decision != StatusApproved && decision != StatusRejected {
		return fmt.Errorf("invalid decision: %s", decision)
	}
	if current != StatusPending {
		return &DecisionError{Current: current}
	}
	return nil
}
