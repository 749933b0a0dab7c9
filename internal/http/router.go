package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shrush07/puff-n-sip-backend/internal/auth"
)

func NewRouter(verifier *auth.Verifier, requestTimeout time.Duration, cart *CartHandler, orders *OrderHandler, admin *AdminHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(IdentityMiddleware(verifier))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.GetCart)
			r.Post("/items", cart.AddItem)
			r.Put("/items/{productID}", cart.SetQuantity)
			r.Delete("/items/{productID}", cart.RemoveItem)
			r.Delete("/", cart.ClearCart)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.CreateFromCart)
			r.Get("/draft", orders.Draft)
			r.Get("/latest", orders.Latest)
			r.Get("/{orderID}", orders.GetOrder)
			r.Put("/{orderID}", orders.UpdateDraft)
			r.Post("/{orderID}/cancel", orders.Cancel)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/intent", orders.CreateIntent)
			r.Post("/confirm", orders.ConfirmPayment)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Get("/top-products", admin.TopProducts)
			r.Get("/dashboard", admin.Dashboard)
		})
	})

	return r
}
