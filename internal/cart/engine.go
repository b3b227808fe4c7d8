// Package cart owns the table-side order state: product and offer lines,
// kitchen notes, and the derived monetary totals. Every mutation is
// persisted to the configured store before it returns and announced to
// registered subscribers.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/S4ntifdz/tableside-go/internal/money"
)

// Namespace is the fixed storage key the cart document lives under.
const Namespace = "cart-storage"

// DefaultServiceRateBps is the mandatory service charge: 10% of the
// subtotal, expressed in basis points.
const DefaultServiceRateBps = 1000

// ErrInvalidQuantity is returned when an add operation receives a
// quantity that is not a positive integer.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// Store persists the cart document under a fixed namespace. Load returns
// (nil, nil) when nothing has been persisted yet.
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// Engine is the cart aggregate. All mutations are serialized by an
// internal mutex, so read-modify-write sequences never interleave.
//
// Persistence is best effort: the in-memory mutation always applies, and
// a failing Save is returned as a warning the caller may log but must not
// treat as a rollback.
type Engine struct {
	store   Store
	log     *zap.Logger
	rateBps int

	mu      sync.Mutex
	doc     Document
	subs    map[int]func(Snapshot)
	nextSub int
}

// Option configures an Engine.
type Option func(*Engine)

// WithServiceRate overrides the service charge rate, in basis points.
func WithServiceRate(bps int) Option {
	return func(e *Engine) { e.rateBps = bps }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New builds an engine rehydrated from the store. A missing document
// yields an empty cart; a failing load is degraded to an empty cart with
// a warning, since the cart must stay usable even when storage is not.
func New(ctx context.Context, store Store, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		log:     zap.NewNop(),
		rateBps: DefaultServiceRateBps,
		subs:    make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(e)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		e.log.Warn("cart load failed, starting empty", zap.Error(err))
	}
	if doc != nil {
		e.doc = *doc
	}
	return e
}

// Subscribe registers a callback invoked with a snapshot after every
// mutation. The returned func removes the registration. Callbacks run
// outside the engine lock and must not be assumed to run on any
// particular goroutine.
func (e *Engine) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// AddProduct merges quantity into the existing line for the product, or
// appends a new line. Calling twice with quantity 1 yields one line with
// quantity 2. Stock is not enforced here; limiting increments is a
// display concern.
func (e *Engine) AddProduct(ctx context.Context, p Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return e.mutate(ctx, func(doc *Document) {
		for i := range doc.Items {
			if doc.Items[i].Product.UUID == p.UUID {
				doc.Items[i].Quantity += quantity
				return
			}
		}
		doc.Items = append(doc.Items, ProductLine{Product: p, Quantity: quantity, Type: LineTypeProduct})
	})
}

// AddOffer merges quantity into the existing line for the offer, keyed
// by offer UUID in the separate offer collection.
func (e *Engine) AddOffer(ctx context.Context, o Offer, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return e.mutate(ctx, func(doc *Document) {
		for i := range doc.Offers {
			if doc.Offers[i].Offer.UUID == o.UUID {
				doc.Offers[i].Quantity += quantity
				return
			}
		}
		doc.Offers = append(doc.Offers, OfferLine{Offer: o, Quantity: quantity, Type: LineTypeOffer})
	})
}

// SetProductQuantity sets (not increments) the quantity of an existing
// line. Zero or below removes the line. A missing line is left missing:
// add is the only creation path.
func (e *Engine) SetProductQuantity(ctx context.Context, productID string, quantity int) error {
	return e.mutate(ctx, func(doc *Document) {
		if quantity <= 0 {
			doc.Items = removeProductLine(doc.Items, productID)
			return
		}
		for i := range doc.Items {
			if doc.Items[i].Product.UUID == productID {
				doc.Items[i].Quantity = quantity
				return
			}
		}
	})
}

// SetOfferQuantity is the offer counterpart of SetProductQuantity.
func (e *Engine) SetOfferQuantity(ctx context.Context, offerID string, quantity int) error {
	return e.mutate(ctx, func(doc *Document) {
		if quantity <= 0 {
			doc.Offers = removeOfferLine(doc.Offers, offerID)
			return
		}
		for i := range doc.Offers {
			if doc.Offers[i].Offer.UUID == offerID {
				doc.Offers[i].Quantity = quantity
				return
			}
		}
	})
}

// RemoveProduct drops the line for productID if present. Removing a
// missing line is a no-op, never an error.
func (e *Engine) RemoveProduct(ctx context.Context, productID string) error {
	return e.mutate(ctx, func(doc *Document) {
		doc.Items = removeProductLine(doc.Items, productID)
	})
}

// RemoveOffer drops the line for offerID if present.
func (e *Engine) RemoveOffer(ctx context.Context, offerID string) error {
	return e.mutate(ctx, func(doc *Document) {
		doc.Offers = removeOfferLine(doc.Offers, offerID)
	})
}

// SetNotes replaces the kitchen notes verbatim. No trimming, no
// validation.
func (e *Engine) SetNotes(ctx context.Context, notes string) error {
	return e.mutate(ctx, func(doc *Document) {
		doc.Notes = notes
	})
}

// Clear resets lines and notes. Called exactly once per confirmed order
// submission.
func (e *Engine) Clear(ctx context.Context) error {
	return e.mutate(ctx, func(doc *Document) {
		*doc = Document{}
	})
}

// Subtotal is the sum of unit price times quantity over both line
// collections.
func (e *Engine) Subtotal() money.Cents {
	e.mu.Lock()
	defer e.mu.Unlock()
	return subtotal(&e.doc)
}

// ServiceCharge is the configured percentage of the subtotal, 10% by
// default.
func (e *Engine) ServiceCharge() money.Cents {
	e.mu.Lock()
	defer e.mu.Unlock()
	return subtotal(&e.doc).Percent(e.rateBps)
}

// Total is subtotal plus service charge. Tips are not part of the cart;
// they are applied at payment time against the server-owed total.
func (e *Engine) Total() money.Cents {
	e.mu.Lock()
	defer e.mu.Unlock()
	sub := subtotal(&e.doc)
	return sub + sub.Percent(e.rateBps)
}

// ItemCount sums quantities across product and offer lines. Checkout is
// gated on a non-zero count by the serving layer.
func (e *Engine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return itemCount(&e.doc)
}

// Notes returns the current kitchen notes.
func (e *Engine) Notes() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Notes
}

// Snapshot returns an independent copy of the cart with derived totals.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) mutate(ctx context.Context, apply func(*Document)) error {
	e.mu.Lock()
	apply(&e.doc)
	snap := e.snapshotLocked()
	doc := e.doc
	doc.Items = snap.Items
	doc.Offers = snap.Offers
	subs := make([]func(Snapshot), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	err := e.store.Save(ctx, &doc)
	e.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}

	if err != nil {
		e.log.Warn("cart persist failed, in-memory state still applied", zap.Error(err))
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func (e *Engine) snapshotLocked() Snapshot {
	items := make([]ProductLine, len(e.doc.Items))
	copy(items, e.doc.Items)
	offers := make([]OfferLine, len(e.doc.Offers))
	copy(offers, e.doc.Offers)

	sub := subtotal(&e.doc)
	service := sub.Percent(e.rateBps)
	return Snapshot{
		Items:         items,
		Offers:        offers,
		Notes:         e.doc.Notes,
		Subtotal:      sub,
		ServiceCharge: service,
		Total:         sub + service,
		ItemCount:     itemCount(&e.doc),
	}
}

func subtotal(doc *Document) money.Cents {
	var sum money.Cents
	for _, line := range doc.Items {
		sum += line.Product.Price.Mul(line.Quantity)
	}
	for _, line := range doc.Offers {
		sum += line.Offer.Price.Mul(line.Quantity)
	}
	return sum
}

func itemCount(doc *Document) int {
	count := 0
	for _, line := range doc.Items {
		count += line.Quantity
	}
	for _, line := range doc.Offers {
		count += line.Quantity
	}
	return count
}

func removeProductLine(lines []ProductLine, productID string) []ProductLine {
	out := lines[:0]
	for _, line := range lines {
		if line.Product.UUID != productID {
			out = append(out, line)
		}
	}
	return out
}

func removeOfferLine(lines []OfferLine, offerID string) []OfferLine {
	out := lines[:0]
	for _, line := range lines {
		if line.Offer.UUID != offerID {
			out = append(out, line)
		}
	}
	return out
}
