package payment

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

const declinedMessage = "Insufficient funds or card declined"

// RandomGateway simulates a payment processor: it waits a configurable delay
// and succeeds with the configured probability. Meant for manual and
// integration runs only.
type RandomGateway struct {
	successRate float64
	delay       time.Duration
}

func NewRandomGateway(successRate float64, delay time.Duration) *RandomGateway {
	return &RandomGateway{successRate: successRate, delay: delay}
}

func (g *RandomGateway) Charge(ctx context.Context, amount float64, method string, details map[string]string) (*ChargeResult, error) {
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	result := &ChargeResult{TransactionID: NewTransactionID()}
	if rand.Float64() < g.successRate {
		result.Success = true
		return result, nil
	}
	result.Message = declinedMessage
	return result, nil
}

// NewTransactionID returns ids like TXN-1714329600123-4F9A1C2B7.
func NewTransactionID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), suffix)
}
