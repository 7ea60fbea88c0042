package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("checkout session not found")

// SessionStore holds the live carts, one per register session. Carts
// idle longer than the TTL are swept by the janitor.
type SessionStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
	ttl   time.Duration
	log   *zap.Logger
}

func NewSessionStore(ttl time.Duration, log *zap.Logger) *SessionStore {
	return &SessionStore{
		carts: make(map[string]*Cart),
		ttl:   ttl,
		log:   log,
	}
}

// Start creates a new cart and returns it.
func (s *SessionStore) Start() *Cart {
	cart := NewCart()
	s.mu.Lock()
	s.carts[cart.ID] = cart
	s.mu.Unlock()
	return cart
}

// Get returns the cart for a session id.
func (s *SessionStore) Get(id string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cart, nil
}

// Drop removes a session entirely.
func (s *SessionStore) Drop(id string) {
	s.mu.Lock()
	delete(s.carts, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts)
}

// Sweep drops every cart idle since before the cutoff and returns how
// many were removed.
func (s *SessionStore) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	swept := 0
	for id, cart := range s.carts {
		if cart.touchedBefore(cutoff) {
			delete(s.carts, id)
			swept++
		}
	}
	return swept
}

// RunJanitor sweeps idle sessions on the given interval until the
// context is cancelled.
func (s *SessionStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if swept := s.Sweep(time.Now().Add(-s.ttl)); swept > 0 {
				s.log.Info("swept idle checkout sessions", zap.Int("count", swept))
			}
		}
	}
}
