// Package session gates access to the ordering flow. A session is the
// lifetime of one authenticated, table-scoped client: the QR token is
// validated upstream once, the bound table UUID is cached, and every
// local request passes through the guard middleware.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
)

// ErrNoToken is returned when validation is attempted before any token
// arrived (no QR scan yet).
var ErrNoToken = errors.New("no session token")

type ctxKey int

const ctxTableID ctxKey = iota

// Validator is the slice of the API client the guard needs.
type Validator interface {
	SetToken(token string)
	ValidateToken(ctx context.Context) (string, error)
}

// Guard holds the session token and the validated table binding.
type Guard struct {
	validator Validator

	mu        sync.Mutex
	token     string
	tableID   string
	validated bool
}

func NewGuard(v Validator) *Guard {
	return &Guard{validator: v}
}

// SetToken installs a new token and discards any previous validation.
func (g *Guard) SetToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if token == g.token {
		return
	}
	g.token = token
	g.tableID = ""
	g.validated = false
	g.validator.SetToken(token)
}

// Validate checks the token upstream, caching a successful result for
// the rest of the session.
func (g *Guard) Validate(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.token == "" {
		return "", ErrNoToken
	}
	if g.validated {
		return g.tableID, nil
	}

	tableID, err := g.validator.ValidateToken(ctx)
	if err != nil {
		return "", err
	}
	g.tableID = tableID
	g.validated = true
	return tableID, nil
}

// TableID returns the validated table UUID, empty until Validate
// succeeds.
func (g *Guard) TableID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tableID
}

// Middleware authenticates local requests. The token comes from the
// Authorization header or, on the first QR deep link, the token query
// parameter. Unauthenticated requests get a 401 JSON error.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := requestToken(r); tok != "" {
			g.SetToken(tok)
		}

		tableID, err := g.Validate(r.Context())
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid or missing session token"})
			return
		}

		ctx := context.WithValue(r.Context(), ctxTableID, tableID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TableFromContext returns the table UUID the middleware stored.
func TableFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxTableID).(string); ok {
		return v
	}
	return ""
}

func requestToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
