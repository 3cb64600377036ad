package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to confirmed", OrderStatusPending, OrderStatusConfirmed, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"confirmed to processing", OrderStatusConfirmed, OrderStatusProcessing, true},
		{"processing to shipped", OrderStatusProcessing, OrderStatusShipped, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"pending to shipped skips steps", OrderStatusPending, OrderStatusShipped, false},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusCancelled, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusConfirmed, false},
		{"shipped cannot be cancelled", OrderStatusShipped, OrderStatusCancelled, false},
		{"no backwards transition", OrderStatusProcessing, OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransitionStatus(tt.from, tt.to))
		})
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	} {
		assert.True(t, s.Valid(), "expected %q to be valid", s)
	}
	assert.False(t, OrderStatus("returned").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestCartRecalculateTotal(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ProductID: "a", Quantity: 2, Price: 10.5},
			{ProductID: "b", Quantity: 1, Price: 3.25},
		},
	}
	cart.RecalculateTotal()
	assert.InDelta(t, 24.25, cart.TotalAmount, 0.001)

	cart.Items = nil
	cart.RecalculateTotal()
	assert.Zero(t, cart.TotalAmount)
}

func TestNewPage(t *testing.T) {
	items := []int{1, 2, 3, 4}

	page := NewPage(items, 3, func(i int) string { return string(rune('a' + i)) })
	assert.Len(t, page.Data, 3)
	assert.True(t, page.Pagination.HasMore)
	assert.Equal(t, "d", page.Pagination.NextCursor)

	page = NewPage(items[:2], 3, func(i int) string { return "x" })
	assert.Len(t, page.Data, 2)
	assert.False(t, page.Pagination.HasMore)
	assert.Empty(t, page.Pagination.NextCursor)
}
