package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the storefront API. Catalog reads are public; cart,
// order, and checkout routes require a caller identity, and catalog or
// fulfilment mutations additionally require the admin role.
func NewRouter(
	products *ProductHandler,
	cart *CartHandler,
	orders *OrderHandler,
	checkout *CheckoutHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/{id}", products.Get)

			r.Group(func(r chi.Router) {
				r.Use(Auth, RequireAdmin)
				r.Post("/", products.Create)
				r.Put("/{id}", products.Update)
				r.Delete("/{id}", products.Delete)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(Auth)
			r.Get("/", cart.GetCart)
			r.Delete("/", cart.Clear)
			r.Post("/items", cart.AddItem)
			r.Put("/items/{productID}", cart.UpdateItem)
			r.Delete("/items/{productID}", cart.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(Auth)
			r.Post("/", orders.Create)
			r.Get("/", orders.ListMine)
			r.Get("/{id}", orders.Get)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Get("/all", orders.ListAll)
				r.Patch("/{id}/status", orders.UpdateStatus)
			})
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(Auth)
			r.Post("/payment", checkout.ProcessPayment)
			r.Get("/status/{orderID}", checkout.GetOrderStatus)
		})
	})

	return r
}
