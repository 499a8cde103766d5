// Package redis implements a cart store backed by Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"petstores/pkg/cart"
)

// Store persists carts as JSON blobs keyed by session id. Mutations
// for the same session are serialized in-process around the
// read-modify-write cycle.
type Store struct {
	client *goredis.Client

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a store using the given client.
func New(client *goredis.Client) *Store {
	return &Store{client: client, locks: make(map[string]*sync.Mutex)}
}

func key(sessionID string) string {
	return "cart:" + sessionID
}

func (s *Store) lock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

func (s *Store) load(ctx context.Context, sessionID string) (cart.Cart, error) {
	var c cart.Cart
	data, err := s.client.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("load cart: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

// Get returns the session's cart, an empty one when none is stored
// yet.
func (s *Store) Get(ctx context.Context, sessionID string) (cart.Cart, error) {
	l := s.lock(sessionID)
	l.Lock()
	defer l.Unlock()
	return s.load(ctx, sessionID)
}

// Update applies fn to the stored cart and writes the result back.
func (s *Store) Update(ctx context.Context, sessionID string, fn func(*cart.Cart)) (cart.Cart, error) {
	l := s.lock(sessionID)
	l.Lock()
	defer l.Unlock()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return cart.Cart{}, err
	}
	fn(&c)
	data, err := json.Marshal(c)
	if err != nil {
		return cart.Cart{}, fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, key(sessionID), data, 0).Err(); err != nil {
		return cart.Cart{}, fmt.Errorf("store cart: %w", err)
	}
	return c, nil
}
