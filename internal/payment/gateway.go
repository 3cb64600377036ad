package payment

import "context"

// ChargeResult reports the gateway outcome. A transaction id is assigned on
// every attempt, success or not.
type ChargeResult struct {
	Success       bool
	TransactionID string
	Message       string
}

// Gateway is the payment collaborator. The production implementation is a
// randomized mock (no real gateway integration); tests plug in deterministic
// doubles.
type Gateway interface {
	Charge(ctx context.Context, amount float64, method string, details map[string]string) (*ChargeResult, error)
}
