package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iyanu752/e-commerce-api/internal/service"
)

type CartHandler struct {
	cart *service.CartService
}

func NewCartHandler(cart *service.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.Get(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "productId is required")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "bad_request", "quantity must be between 1 and 99")
		return
	}

	cart, err := h.cart.AddItem(r.Context(), userIDFrom(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "bad_request", "quantity must be between 1 and 99")
		return
	}

	cart, err := h.cart.UpdateItem(r.Context(), userIDFrom(r.Context()), productID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	cart, err := h.cart.RemoveItem(r.Context(), userIDFrom(r.Context()), productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.Clear(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}
