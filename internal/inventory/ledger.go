// Package inventory owns per-product stock counts. All stock mutation goes
// through the Ledger's atomic conditional updates; callers never get
// read-then-write access to the stock field.
package inventory

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Ledger interface {
	// CheckAvailable is an advisory, non-locking read used for early feedback
	// (e.g. in the cart). Stock may change before any reservation happens.
	CheckAvailable(ctx context.Context, productID string, qty int) (bool, error)

	// Reserve decrements stock by qty only if current stock >= qty, as one
	// atomic conditional update. Returns ErrInsufficientStock when the
	// condition fails and ErrProductNotFound when the product is missing.
	Reserve(ctx context.Context, productID string, qty int) error

	// Release increments stock back after a payment failure or cancellation.
	// It fails only on a missing product, which indicates a broken invariant:
	// the caller must log it, not retry it.
	Release(ctx context.Context, productID string, qty int) error
}

// There is no Commit: reservation already removed the stock, so a successful
// payment simply keeps the decrement.
