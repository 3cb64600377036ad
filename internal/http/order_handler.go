package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iyanu752/e-commerce-api/internal/domain"
	"github.com/iyanu752/e-commerce-api/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type createOrderRequest struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	Notes           string                 `json:"notes"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if msg := validateAddress(req.ShippingAddress); msg != "" {
		respondError(w, http.StatusBadRequest, "bad_request", msg)
		return
	}

	order, err := h.orders.CreateFromCart(r.Context(), userIDFrom(r.Context()), req.ShippingAddress, req.Notes)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := listParams(w, r)
	if !ok {
		return
	}
	page, err := h.orders.ListForUser(r.Context(), userIDFrom(r.Context()), cursor, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := listParams(w, r)
	if !ok {
		return
	}
	page, err := h.orders.ListAll(r.Context(), cursor, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"), userIDFrom(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func validateAddress(a domain.ShippingAddress) string {
	switch {
	case a.FullName == "":
		return "shippingAddress.fullName is required"
	case a.Address == "":
		return "shippingAddress.address is required"
	case a.City == "":
		return "shippingAddress.city is required"
	case a.State == "":
		return "shippingAddress.state is required"
	case a.ZipCode == "":
		return "shippingAddress.zipCode is required"
	case a.Country == "":
		return "shippingAddress.country is required"
	}
	return ""
}

func listParams(w http.ResponseWriter, r *http.Request) (cursor string, limit int, ok bool) {
	q := r.URL.Query()
	cursor = q.Get("cursor")
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "bad_request", "limit must be between 1 and 100")
			return "", 0, false
		}
		limit = parsed
	}
	return cursor, limit, true
}
