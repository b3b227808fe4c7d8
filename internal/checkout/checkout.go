// Package checkout drives the two flows that leave the device: order
// submission (local cart -> order-creation collaborator) and table
// payment (server-owed total + tip -> payment collaborator).
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/S4ntifdz/tableside-go/internal/api"
	"github.com/S4ntifdz/tableside-go/internal/cart"
	"github.com/S4ntifdz/tableside-go/internal/money"
	"github.com/S4ntifdz/tableside-go/internal/tip"
)

// ErrEmptyCart rejects checkout with nothing in the cart. Enforced
// here at the flow boundary; the engine itself has no notion of
// checkout.
var ErrEmptyCart = errors.New("cart is empty")

// Backend is the slice of the remote API the flows need.
type Backend interface {
	CreateOrder(ctx context.Context, req api.OrderRequest) (*api.Order, error)
	UnpaidOrders(ctx context.Context, tableID string) (*api.UnpaidOrders, error)
	CreatePayment(ctx context.Context, req api.PaymentRequest) (*api.Payment, error)
}

// Config resolves the drifted behavior of the original payment pages as
// policy: whether the tip step is offered at all, and how long after a
// successful payment the rating prompt appears.
type Config struct {
	SkipTip     bool
	RatingDelay time.Duration
}

type Flow struct {
	engine  *cart.Engine
	backend Backend
	policy  tip.Policy
	cfg     Config
	log     *zap.Logger
}

func NewFlow(engine *cart.Engine, backend Backend, policy tip.Policy, cfg Config, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{engine: engine, backend: backend, policy: policy, cfg: cfg, log: log}
}

// SubmitOrder maps the cart to id+quantity lines and hands it to the
// order-creation collaborator. The cart is cleared only after the
// server confirms; on any failure it is left untouched so the diner can
// retry without data loss.
func (f *Flow) SubmitOrder(ctx context.Context, tableID string) (*api.Order, error) {
	snap := f.engine.Snapshot()
	if snap.ItemCount == 0 {
		return nil, ErrEmptyCart
	}

	req := api.OrderRequest{Table: tableID, Notes: snap.Notes}
	for _, line := range snap.Items {
		req.OrderProducts = append(req.OrderProducts, api.OrderProduct{
			Product:  line.Product.UUID,
			Quantity: line.Quantity,
		})
	}
	for _, line := range snap.Offers {
		req.OrderOffers = append(req.OrderOffers, api.OrderOffer{
			Offer:    line.Offer.UUID,
			Quantity: line.Quantity,
		})
	}

	order, err := f.backend.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := f.engine.Clear(ctx); err != nil {
		// order is already placed; a persist warning must not fail it
		f.log.Warn("clear cart after order", zap.Error(err))
	}

	f.log.Info("order placed",
		zap.Int("order_number", order.OrderNumber),
		zap.String("table", tableID),
		zap.Int("item_count", snap.ItemCount))
	return order, nil
}

// PaymentResult reports what was settled and when the rating prompt
// should appear.
type PaymentResult struct {
	Payment     *api.Payment  `json:"payment"`
	Owed        money.Cents   `json:"owed"`
	Tip         money.Cents   `json:"tip"`
	Total       money.Cents   `json:"total_with_tip"`
	RatingAfter time.Duration `json:"-"`
}

// PayTable settles the table: reads the server-owed snapshot, applies
// the tip policy, and creates the payment for owed plus tip.
func (f *Flow) PayTable(ctx context.Context, tableID, method string, sel tip.Selection) (*PaymentResult, error) {
	if f.cfg.SkipTip {
		sel = tip.Selection{}
	}

	unpaid, err := f.backend.UnpaidOrders(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("load unpaid orders: %w", err)
	}

	owed := money.FromFloat(unpaid.TotalAmountOwed)
	tipAmount, err := f.policy.Tip(owed, sel)
	if err != nil {
		return nil, err
	}
	total := owed + tipAmount

	payment, err := f.backend.CreatePayment(ctx, api.PaymentRequest{
		Method: method,
		Amount: total.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	f.log.Info("table paid",
		zap.String("table", tableID),
		zap.String("method", method),
		zap.String("amount", total.String()))

	return &PaymentResult{
		Payment:     payment,
		Owed:        owed,
		Tip:         tipAmount,
		Total:       total,
		RatingAfter: f.cfg.RatingDelay,
	}, nil
}
