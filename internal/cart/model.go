package cart

import "github.com/S4ntifdz/tableside-go/internal/money"

// Line type discriminants, kept in the persisted document so older
// readers can tell product lines from offer lines.
const (
	LineTypeProduct = "product"
	LineTypeOffer   = "offer"
)

// Product is a purchasable menu item. The cart treats it as reference
// data: whatever the menu reported at add time is what the line keeps.
type Product struct {
	UUID        string      `json:"uuid"`
	Name        string      `json:"name"`
	Price       money.Cents `json:"price"`
	Description string      `json:"description,omitempty"`
	Stock       int         `json:"stock,omitempty"`
	Image       string      `json:"image,omitempty"`
}

// OfferComponent is one constituent of a bundle. Informational only;
// the bundle price is authoritative.
type OfferComponent struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Offer is a fixed-price bundle with its own identity, priced
// independently of its components.
type Offer struct {
	UUID     string           `json:"uuid"`
	Name     string           `json:"name"`
	Price    money.Cents      `json:"price"`
	Products []OfferComponent `json:"products,omitempty"`
}

// ProductLine associates a product snapshot with a quantity. At most one
// line exists per product UUID, and quantity is always >= 1.
type ProductLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Type     string  `json:"type"`
}

// OfferLine is the offer counterpart of ProductLine.
type OfferLine struct {
	Offer    Offer  `json:"offer"`
	Quantity int    `json:"quantity"`
	Type     string `json:"type"`
}

// Document is the persisted cart state: the full denormalized line
// collections plus the free-text kitchen notes. Server-side price changes
// after a line was added do not reach the document; the cart is a
// price-quoted snapshot.
type Document struct {
	Items  []ProductLine `json:"items"`
	Offers []OfferLine   `json:"offers"`
	Notes  string        `json:"notes"`
}

// Snapshot is an immutable read of the cart handed to queries and
// subscribers, with the derived totals already computed.
type Snapshot struct {
	Items         []ProductLine `json:"items"`
	Offers        []OfferLine   `json:"offers"`
	Notes         string        `json:"notes"`
	Subtotal      money.Cents   `json:"subtotal"`
	ServiceCharge money.Cents   `json:"service_charge"`
	Total         money.Cents   `json:"total"`
	ItemCount     int           `json:"item_count"`
}
