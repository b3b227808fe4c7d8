// Package httpapi exposes the cart engine and the checkout flows to the
// UI layer over a small local JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/S4ntifdz/tableside-go/internal/api"
	"github.com/S4ntifdz/tableside-go/internal/cart"
	"github.com/S4ntifdz/tableside-go/internal/checkout"
	"github.com/S4ntifdz/tableside-go/internal/money"
	"github.com/S4ntifdz/tableside-go/internal/session"
	"github.com/S4ntifdz/tableside-go/internal/tip"
)

// MenuBackend is the slice of the remote API the read-only pages use.
type MenuBackend interface {
	Products(ctx context.Context) ([]api.Product, error)
	Offers(ctx context.Context) ([]api.Offer, error)
	Menus(ctx context.Context) ([]api.Menu, error)
	MenuCategories(ctx context.Context) ([]api.MenuCategory, error)
	UnpaidOrders(ctx context.Context, tableID string) (*api.UnpaidOrders, error)
	CallWaiter(ctx context.Context, tableID string) (*api.WaiterCall, error)
	CancelWaiterCall(ctx context.Context) error
}

type Handler struct {
	engine  *cart.Engine
	flow    *checkout.Flow
	backend MenuBackend
	log     *zap.Logger
}

func NewHandler(engine *cart.Engine, flow *checkout.Flow, backend MenuBackend, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{engine: engine, flow: flow, backend: backend, log: log}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "tableside"})
}

// GetCart returns the snapshot with derived totals; every mutation
// handler responds with the same shape so the UI always has fresh
// totals.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.afterMutation(w, h.engine.Clear(r.Context()))
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Product  api.Product `json:"product"`
		Quantity int         `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}
	if body.Product.UUID == "" {
		writeError(w, http.StatusBadRequest, "missing product uuid")
		return
	}

	err := h.engine.AddProduct(r.Context(), body.Product.CartProduct(), body.Quantity)
	if errors.Is(err, cart.ErrInvalidQuantity) {
		writeError(w, http.StatusBadRequest, "quantity must be a positive integer")
		return
	}
	h.afterMutation(w, err)
}

func (h *Handler) AddOffer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Offer    api.Offer `json:"offer"`
		Quantity int       `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}
	if body.Offer.UUID == "" {
		writeError(w, http.StatusBadRequest, "missing offer uuid")
		return
	}

	err := h.engine.AddOffer(r.Context(), body.Offer.CartOffer(), body.Quantity)
	if errors.Is(err, cart.ErrInvalidQuantity) {
		writeError(w, http.StatusBadRequest, "quantity must be a positive integer")
		return
	}
	h.afterMutation(w, err)
}

func (h *Handler) SetProductQuantity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	h.afterMutation(w, h.engine.SetProductQuantity(r.Context(), chi.URLParam(r, "productId"), body.Quantity))
}

func (h *Handler) SetOfferQuantity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	h.afterMutation(w, h.engine.SetOfferQuantity(r.Context(), chi.URLParam(r, "offerId"), body.Quantity))
}

func (h *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	h.afterMutation(w, h.engine.RemoveProduct(r.Context(), chi.URLParam(r, "productId")))
}

func (h *Handler) RemoveOffer(w http.ResponseWriter, r *http.Request) {
	h.afterMutation(w, h.engine.RemoveOffer(r.Context(), chi.URLParam(r, "offerId")))
}

func (h *Handler) SetNotes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	h.afterMutation(w, h.engine.SetNotes(r.Context(), body.Notes))
}

// Checkout submits the cart as an order. Empty carts are rejected here
// with 409; the engine has no concept of checkout.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	tableID := session.TableFromContext(r.Context())

	order, err := h.flow.SubmitOrder(r.Context(), tableID)
	if errors.Is(err, checkout.ErrEmptyCart) {
		writeError(w, http.StatusConflict, "cart is empty")
		return
	}
	if err != nil {
		h.log.Error("order submission failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to submit order")
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) UnpaidOrders(w http.ResponseWriter, r *http.Request) {
	tableID := session.TableFromContext(r.Context())
	unpaid, err := h.backend.UnpaidOrders(r.Context(), tableID)
	if err != nil {
		h.upstreamError(w, "load unpaid orders", err)
		return
	}
	writeJSON(w, http.StatusOK, unpaid)
}

// Pay settles the table. The tip is either one of the configured preset
// percentages or a free-form decimal amount.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Method string `json:"method"`
		Tip    struct {
			Percent int     `json:"percent"`
			Amount  *string `json:"amount"`
		} `json:"tip"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Method == "" {
		writeError(w, http.StatusBadRequest, "missing payment method")
		return
	}

	sel := tip.Percent(body.Tip.Percent)
	if body.Tip.Amount != nil {
		amount, err := money.Parse(*body.Tip.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid tip amount")
			return
		}
		sel = tip.Custom(amount)
	}

	tableID := session.TableFromContext(r.Context())
	result, err := h.flow.PayTable(r.Context(), tableID, body.Method, sel)
	switch {
	case errors.Is(err, tip.ErrUnknownPreset),
		errors.Is(err, tip.ErrCustomNotAllowed),
		errors.Is(err, tip.ErrNegativeAmount):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.upstreamError(w, "payment", err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		*checkout.PaymentResult
		RatingAfterMs int64 `json:"rating_after_ms"`
	}{result, result.RatingAfter.Milliseconds()})
}

func (h *Handler) CallWaiter(w http.ResponseWriter, r *http.Request) {
	tableID := session.TableFromContext(r.Context())
	call, err := h.backend.CallWaiter(r.Context(), tableID)
	if err != nil {
		h.upstreamError(w, "call waiter", err)
		return
	}
	writeJSON(w, http.StatusOK, call)
}

func (h *Handler) CancelWaiterCall(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.CancelWaiterCall(r.Context()); err != nil {
		h.upstreamError(w, "cancel waiter call", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	h.proxyList(w, r, "products", func(ctx context.Context) (any, error) {
		return h.backend.Products(ctx)
	})
}

func (h *Handler) Offers(w http.ResponseWriter, r *http.Request) {
	h.proxyList(w, r, "offers", func(ctx context.Context) (any, error) {
		return h.backend.Offers(ctx)
	})
}

func (h *Handler) Menus(w http.ResponseWriter, r *http.Request) {
	h.proxyList(w, r, "menus", func(ctx context.Context) (any, error) {
		return h.backend.Menus(ctx)
	})
}

func (h *Handler) MenuCategories(w http.ResponseWriter, r *http.Request) {
	h.proxyList(w, r, "menu categories", func(ctx context.Context) (any, error) {
		return h.backend.MenuCategories(ctx)
	})
}

func (h *Handler) proxyList(w http.ResponseWriter, r *http.Request, what string, fetch func(ctx context.Context) (any, error)) {
	out, err := fetch(r.Context())
	if err != nil {
		h.upstreamError(w, "load "+what, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// afterMutation answers a mutation request. A persistence failure is a
// warning, not a failed mutation: the in-memory cart did change, so the
// UI gets the fresh snapshot either way.
func (h *Handler) afterMutation(w http.ResponseWriter, err error) {
	if err != nil {
		h.log.Warn("cart persistence degraded", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *Handler) upstreamError(w http.ResponseWriter, what string, err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		writeError(w, http.StatusUnauthorized, "session expired")
		return
	}
	h.log.Error(what+" failed", zap.Error(err))
	writeError(w, http.StatusBadGateway, "failed to "+what)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
