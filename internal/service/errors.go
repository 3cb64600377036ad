package service

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrItemNotFound       = errors.New("item not found in cart")
	ErrProductUnavailable = errors.New("product not found or inactive")
	ErrAlreadyPaid        = errors.New("order is already paid")
	ErrPaymentClosed      = errors.New("payment already resolved for this order")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrIllegalTransition  = errors.New("illegal order status transition")
)
