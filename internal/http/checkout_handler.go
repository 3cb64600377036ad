package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iyanu752/e-commerce-api/internal/service"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
}

func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type processPaymentRequest struct {
	OrderID        string            `json:"orderId"`
	PaymentMethod  string            `json:"paymentMethod"`
	PaymentDetails map[string]string `json:"paymentDetails"`
}

var paymentMethods = map[string]bool{
	"credit_card":   true,
	"debit_card":    true,
	"paypal":        true,
	"bank_transfer": true,
}

func (h *CheckoutHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req processPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.OrderID == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "orderId is required")
		return
	}
	if !paymentMethods[req.PaymentMethod] {
		respondError(w, http.StatusBadRequest, "bad_request", "unsupported payment method")
		return
	}

	result, err := h.checkout.ProcessPayment(r.Context(), userIDFrom(r.Context()), req.OrderID, req.PaymentMethod, req.PaymentDetails)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// A declined charge is a completed checkout attempt, not a transport
	// failure, so it still returns 200 with success=false in the body.
	respondJSON(w, http.StatusOK, result)
}

func (h *CheckoutHandler) GetOrderStatus(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkout.GetOrderStatus(r.Context(), chi.URLParam(r, "orderID"), userIDFrom(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
