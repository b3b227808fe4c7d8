package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/S4ntifdz/tableside-go/internal/api"
	"github.com/S4ntifdz/tableside-go/internal/cart"
	"github.com/S4ntifdz/tableside-go/internal/checkout"
	"github.com/S4ntifdz/tableside-go/internal/money"
	"github.com/S4ntifdz/tableside-go/internal/session"
	"github.com/S4ntifdz/tableside-go/internal/storage"
	"github.com/S4ntifdz/tableside-go/internal/tip"
)

type fakeBackend struct {
	createOrderFunc func(ctx context.Context, req api.OrderRequest) (*api.Order, error)
	unpaidFunc      func(ctx context.Context, tableID string) (*api.UnpaidOrders, error)
	productsErr     error
}

func (f *fakeBackend) CreateOrder(ctx context.Context, req api.OrderRequest) (*api.Order, error) {
	if f.createOrderFunc != nil {
		return f.createOrderFunc(ctx, req)
	}
	return &api.Order{OrderNumber: 55}, nil
}

func (f *fakeBackend) UnpaidOrders(ctx context.Context, tableID string) (*api.UnpaidOrders, error) {
	if f.unpaidFunc != nil {
		return f.unpaidFunc(ctx, tableID)
	}
	return &api.UnpaidOrders{TableUUID: tableID, TotalAmountOwed: 45.50}, nil
}

func (f *fakeBackend) CreatePayment(ctx context.Context, req api.PaymentRequest) (*api.Payment, error) {
	return &api.Payment{Method: req.Method, Amount: req.Amount, Status: "approved"}, nil
}

func (f *fakeBackend) Products(ctx context.Context) ([]api.Product, error) {
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return []api.Product{{UUID: "p1", Name: "Burger", Price: 15.00}}, nil
}

func (f *fakeBackend) Offers(ctx context.Context) ([]api.Offer, error) { return nil, nil }

func (f *fakeBackend) Menus(ctx context.Context) ([]api.Menu, error) { return nil, nil }

func (f *fakeBackend) MenuCategories(ctx context.Context) ([]api.MenuCategory, error) {
	return nil, nil
}

func (f *fakeBackend) CallWaiter(ctx context.Context, tableID string) (*api.WaiterCall, error) {
	return &api.WaiterCall{Number: 4, Calling: true}, nil
}

func (f *fakeBackend) CancelWaiterCall(ctx context.Context) error { return nil }

type staticValidator struct{}

func (staticValidator) SetToken(string) {}

func (staticValidator) ValidateToken(ctx context.Context) (string, error) {
	return "table-9", nil
}

func newServer(t *testing.T, backend *fakeBackend) (*httptest.Server, *cart.Engine) {
	t.Helper()

	engine := cart.New(context.Background(), storage.NewMemory())
	flow := checkout.NewFlow(engine, backend, tip.DefaultPolicy(), checkout.Config{}, zap.NewNop())
	handler := NewHandler(engine, flow, backend, zap.NewNop())

	guard := session.NewGuard(staticValidator{})
	guard.SetToken("tok")

	srv := httptest.NewServer(NewRouter(handler, guard))
	t.Cleanup(srv.Close)
	return srv, engine
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var out map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func snapshotFrom(t *testing.T, raw map[string]json.RawMessage) cart.Snapshot {
	t.Helper()
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	var snap cart.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	return snap
}

func TestAddProductReturnsTotals(t *testing.T) {
	srv, _ := newServer(t, &fakeBackend{})

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/cart/items",
		`{"product":{"uuid":"p1","name":"Burger","price":10.00},"quantity":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = doJSON(t, http.MethodPost, srv.URL+"/api/cart/items",
		`{"product":{"uuid":"p1","name":"Burger","price":10.00},"quantity":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	snap := snapshotFrom(t, raw)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 3, snap.Items[0].Quantity)
	assert.Equal(t, money.Cents(3000), snap.Subtotal)
	assert.Equal(t, money.Cents(300), snap.ServiceCharge)
	assert.Equal(t, money.Cents(3300), snap.Total)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	srv, engine := newServer(t, &fakeBackend{})
	ctx := context.Background()
	require.NoError(t, engine.AddProduct(ctx, cart.Product{UUID: "c", Price: 500}, 4))

	resp, raw := doJSON(t, http.MethodPut, srv.URL+"/api/cart/items/c", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, snapshotFrom(t, raw).Items)
}

func TestAddProductRejectsNegativeQuantity(t *testing.T) {
	srv, engine := newServer(t, &fakeBackend{})

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/cart/items",
		`{"product":{"uuid":"p1","price":10.00},"quantity":-1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, engine.ItemCount())
}

func TestNotesRoundTrip(t *testing.T) {
	srv, engine := newServer(t, &fakeBackend{})

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/cart/notes", `{"notes":"extra napkins"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "extra napkins", engine.Notes())
}

func TestCheckoutEmptyCartConflicts(t *testing.T) {
	srv, _ := newServer(t, &fakeBackend{})

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/checkout", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw["error"]), "empty")
}

func TestCheckoutSubmitsAndClears(t *testing.T) {
	var got api.OrderRequest
	backend := &fakeBackend{
		createOrderFunc: func(ctx context.Context, req api.OrderRequest) (*api.Order, error) {
			got = req
			return &api.Order{OrderNumber: 88}, nil
		},
	}
	srv, engine := newServer(t, backend)
	ctx := context.Background()
	require.NoError(t, engine.AddProduct(ctx, cart.Product{UUID: "p1", Price: 1000}, 2))

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/checkout", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "88", string(raw["order_number"]))
	assert.Equal(t, "table-9", got.Table)
	assert.Zero(t, engine.ItemCount())
}

func TestCheckoutUpstreamFailureLeavesCart(t *testing.T) {
	backend := &fakeBackend{
		createOrderFunc: func(ctx context.Context, req api.OrderRequest) (*api.Order, error) {
			return nil, errors.New("boom")
		},
	}
	srv, engine := newServer(t, backend)
	require.NoError(t, engine.AddProduct(context.Background(), cart.Product{UUID: "p1", Price: 1000}, 1))

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/checkout", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, 1, engine.ItemCount(), "failed submission must not clear the cart")
}

func TestPaymentWithPresetTip(t *testing.T) {
	srv, _ := newServer(t, &fakeBackend{})

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/payment",
		`{"method":"credit_card","tip":{"percent":15}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "4550", string(raw["owed"]))
	assert.Equal(t, "683", string(raw["tip"]))
	assert.Equal(t, "5233", string(raw["total_with_tip"]))
}

func TestPaymentWithCustomTipAmount(t *testing.T) {
	srv, _ := newServer(t, &fakeBackend{})

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/payment",
		`{"method":"cash","tip":{"amount":"5.00"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "500", string(raw["tip"]))
	assert.Equal(t, "5050", string(raw["total_with_tip"]))
}

func TestPaymentRejectsUnknownPreset(t *testing.T) {
	srv, _ := newServer(t, &fakeBackend{})

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/payment",
		`{"method":"cash","tip":{"percent":17}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	backend := &fakeBackend{}
	engine := cart.New(context.Background(), storage.NewMemory())
	flow := checkout.NewFlow(engine, backend, tip.DefaultPolicy(), checkout.Config{}, nil)
	handler := NewHandler(engine, flow, backend, nil)
	guard := session.NewGuard(staticValidator{}) // no token set

	srv := httptest.NewServer(NewRouter(handler, guard))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/cart")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// health stays open
	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMenuProxy(t *testing.T) {
	srv, _ := newServer(t, &fakeBackend{})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/menu/products", nil)
	req.Header.Set("Authorization", "Bearer tok")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []api.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.Equal(t, "Burger", products[0].Name)
}

func TestMenuProxyUpstreamError(t *testing.T) {
	srv, _ := newServer(t, &fakeBackend{productsErr: errors.New("down")})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/menu/products", nil)
	req.Header.Set("Authorization", "Bearer tok")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestWaiterCall(t *testing.T) {
	srv, _ := newServer(t, &fakeBackend{})

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/waiter/call", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", string(raw["calling"]))
}
