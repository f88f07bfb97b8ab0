package cart

import (
	"context"
	"sync"
)

// MemoryStore keeps carts in process memory. Used by tests and as a fallback
// when no redis address is configured.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string][]Line
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]Line)}
}

func (s *MemoryStore) GetAll(_ context.Context, cartID string) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]Line, len(s.carts[cartID]))
	copy(lines, s.carts[cartID])
	return lines, nil
}

func (s *MemoryStore) AddItem(_ context.Context, cartID string, line Line) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cartID] = addLine(s.carts[cartID], line)
	lines := make([]Line, len(s.carts[cartID]))
	copy(lines, s.carts[cartID])
	return lines, nil
}

func (s *MemoryStore) RemoveItem(_ context.Context, cartID string, productID uint) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cartID] = removeLine(s.carts[cartID], productID)
	lines := make([]Line, len(s.carts[cartID]))
	copy(lines, s.carts[cartID])
	return lines, nil
}

func (s *MemoryStore) Clear(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
	return nil
}
