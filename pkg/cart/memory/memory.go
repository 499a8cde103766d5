// Package memory implements an in-memory cart store.
package memory

import (
	"context"
	"sync"

	"petstores/pkg/cart"
)

// Store keeps carts in process memory, one entry per session id. A
// per-entry mutex serializes mutations for the same session while
// distinct sessions proceed in parallel.
type Store struct {
	mu    sync.Mutex
	carts map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	cart cart.Cart
}

// New creates an empty store.
func New() *Store {
	return &Store{carts: make(map[string]*entry)}
}

func (s *Store) session(sessionID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.carts[sessionID]
	if !ok {
		e = &entry{}
		s.carts[sessionID] = e
	}
	return e
}

// Get returns a copy of the session's cart, creating it on first use.
func (s *Store) Get(ctx context.Context, sessionID string) (cart.Cart, error) {
	e := s.session(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Clone(), nil
}

// Update applies fn to the session's cart under its lock.
func (s *Store) Update(ctx context.Context, sessionID string, fn func(*cart.Cart)) (cart.Cart, error) {
	e := s.session(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.cart)
	return e.cart.Clone(), nil
}
