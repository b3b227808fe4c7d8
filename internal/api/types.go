package api

import (
	"github.com/S4ntifdz/tableside-go/internal/cart"
	"github.com/S4ntifdz/tableside-go/internal/money"
)

// Wire types for the restaurant backend. Prices travel as JSON numbers
// in display units; conversion to integer cents happens at this
// boundary, never inside the cart.

type Product struct {
	UUID        string  `json:"uuid"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

type OfferComponent struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type Offer struct {
	UUID     string           `json:"uuid"`
	Name     string           `json:"name"`
	Price    float64          `json:"price"`
	Products []OfferComponent `json:"products"`
}

type MenuCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Tenant      string `json:"tenant"`
}

type Menu struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Products []string `json:"products"`
	Active   bool     `json:"active"`
	Category int      `json:"category"`
}

type OrderProduct struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type OrderOffer struct {
	Offer    string `json:"offer"`
	Quantity int    `json:"quantity"`
}

// OrderRequest is the payload handed to the order-creation collaborator
// when the diner confirms: line ids and quantities only, plus notes.
type OrderRequest struct {
	Table         string         `json:"table"`
	OrderProducts []OrderProduct `json:"order_products"`
	OrderOffers   []OrderOffer   `json:"order_offers,omitempty"`
	Notes         string         `json:"notes,omitempty"`
}

type Order struct {
	ID          int     `json:"id"`
	OrderNumber int     `json:"order_number"`
	Table       string  `json:"table"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	CreatedAt   string  `json:"created_at"`
}

type UnpaidOrders struct {
	TableUUID        string  `json:"table_uuid"`
	TableNumber      int     `json:"table_number"`
	Orders           []Order `json:"orders"`
	TotalAmountOwed  float64 `json:"total_amount_owed"`
	UnpaidOrderCount int     `json:"unpaid_orders_count"`
}

type OpenSessions struct {
	TableUUID    string `json:"table_uuid"`
	OpenSessions int    `json:"open_sessions"`
}

type PaymentRequest struct {
	Method string `json:"method"`
	Amount string `json:"amount"`
}

type Payment struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Amount string `json:"amount"`
	Status string `json:"status"`
}

type WaiterCall struct {
	Number  int  `json:"number"`
	Calling bool `json:"calling"`
}

type tokenValidation struct {
	Valid     bool   `json:"valid"`
	TableUUID string `json:"table_uuid"`
}

// CartProduct converts a menu product into the denormalized snapshot a
// cart line keeps.
func (p Product) CartProduct() cart.Product {
	return cart.Product{
		UUID:        p.UUID,
		Name:        p.Name,
		Price:       money.FromFloat(p.Price),
		Description: p.Description,
		Stock:       p.Stock,
		Image:       p.Image,
	}
}

// CartOffer converts a menu offer into the snapshot an offer line keeps.
func (o Offer) CartOffer() cart.Offer {
	out := cart.Offer{
		UUID:  o.UUID,
		Name:  o.Name,
		Price: money.FromFloat(o.Price),
	}
	for _, comp := range o.Products {
		out.Products = append(out.Products, cart.OfferComponent{
			Product:  comp.Product.CartProduct(),
			Quantity: comp.Quantity,
		})
	}
	return out
}
