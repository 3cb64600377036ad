package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iyanu752/e-commerce-api/internal/domain"
	"github.com/iyanu752/e-commerce-api/internal/service"
)

type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

type productRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	IsActive    *bool    `json:"isActive"`
}

func (req *productRequest) validate() string {
	if req.Name == "" {
		return "name is required"
	}
	if req.Price < 0 {
		return "price must not be negative"
	}
	if req.Stock < 0 {
		return "stock must not be negative"
	}
	return ""
}

func (req *productRequest) toProduct() *domain.Product {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Images:      req.Images,
		IsActive:    active,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Cursor:   q.Get("cursor"),
	}
	var ok bool
	if filter.MinPrice, ok = parsePrice(q.Get("minPrice")); !ok {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid minPrice")
		return
	}
	if filter.MaxPrice, ok = parsePrice(q.Get("maxPrice")); !ok {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid maxPrice")
		return
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			respondError(w, http.StatusBadRequest, "bad_request", "limit must be between 1 and 100")
			return
		}
		filter.Limit = limit
	}

	page, err := h.products.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, "bad_request", msg)
		return
	}

	product := req.toProduct()
	product.CreatedBy = userIDFrom(r.Context())

	created, err := h.products.Create(r.Context(), product)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, "bad_request", msg)
		return
	}

	product := req.toProduct()
	product.ID = chi.URLParam(r, "id")

	updated, err := h.products.Update(r.Context(), product)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func parsePrice(raw string) (*float64, bool) {
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, false
	}
	return &v, true
}
