// Package storage provides the durable key-value backends the cart
// engine persists its document to. Every backend stores one JSON
// document under the fixed cart namespace; Load returns (nil, nil) when
// the namespace has never been written.
package storage

import (
	"context"
	"sync"

	"github.com/S4ntifdz/tableside-go/internal/cart"
)

// Memory keeps the document in process memory. Useful for tests and as
// the fallback backend when nothing durable is configured.
type Memory struct {
	mu  sync.Mutex
	doc *cart.Document
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) (*cart.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, nil
	}
	cp := *m.doc
	return &cp, nil
}

func (m *Memory) Save(ctx context.Context, doc *cart.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *doc
	m.doc = &cp
	return nil
}
