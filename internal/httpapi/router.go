package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/S4ntifdz/tableside-go/internal/session"
)

func NewRouter(h *Handler, guard *session.Guard) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(guard.Middleware)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Put("/notes", h.SetNotes)

			r.Post("/items", h.AddProduct)
			r.Put("/items/{productId}", h.SetProductQuantity)
			r.Delete("/items/{productId}", h.RemoveProduct)

			r.Post("/offers", h.AddOffer)
			r.Put("/offers/{offerId}", h.SetOfferQuantity)
			r.Delete("/offers/{offerId}", h.RemoveOffer)
		})

		r.Post("/checkout", h.Checkout)

		r.Get("/table/unpaid-orders", h.UnpaidOrders)
		r.Post("/payment", h.Pay)

		r.Post("/waiter/call", h.CallWaiter)
		r.Delete("/waiter/call", h.CancelWaiterCall)

		r.Route("/menu", func(r chi.Router) {
			r.Get("/products", h.Products)
			r.Get("/offers", h.Offers)
			r.Get("/menus", h.Menus)
			r.Get("/categories", h.MenuCategories)
		})
	})

	return r
}
