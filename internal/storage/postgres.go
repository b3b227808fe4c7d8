package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/S4ntifdz/tableside-go/internal/cart"
)

// Postgres persists the cart document as a single JSONB row keyed by
// namespace. One table, one row per namespace; the document is replaced
// whole on every save, matching the engine's full-state persistence
// contract.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// OpenPostgres opens and pings a connection for the given DSN.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

func (p *Postgres) Load(ctx context.Context) (*cart.Document, error) {
	const query = `SELECT doc FROM cart_state WHERE namespace = $1`

	var raw []byte
	err := p.db.QueryRowContext(ctx, query, cart.Namespace).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart row: %w", err)
	}

	var doc cart.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode cart row: %w", err)
	}
	return &doc, nil
}

func (p *Postgres) Save(ctx context.Context, doc *cart.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	const upsert = `
INSERT INTO cart_state (namespace, doc, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (namespace) DO UPDATE
SET doc = EXCLUDED.doc, updated_at = NOW()
`
	if _, err := p.db.ExecContext(ctx, upsert, cart.Namespace, data); err != nil {
		return fmt.Errorf("upsert cart row: %w", err)
	}
	return nil
}
