// Package events publishes order lifecycle events for downstream consumers
// (fulfillment, notifications). Publishing is fire-and-forget: a failed
// publish is logged by the caller and never fails the user operation.
package events

import (
	"context"
	"time"
)

const (
	TypeOrderCreated     = "order.created"
	TypePaymentSucceeded = "order.payment.succeeded"
	TypePaymentFailed    = "order.payment.failed"
	TypeOrderCancelled   = "order.cancelled"
)

type OrderEvent struct {
	EventID     string    `json:"event_id"`
	Type        string    `json:"type"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      string    `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, OrderEvent) error { return nil }
func (NoopPublisher) Close() error                              { return nil }
