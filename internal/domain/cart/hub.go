package cart

import (
	"sync"

	"github.com/wicaksana/paket-portal/internal/domain/discount"
)

// Hub owns one cart per authenticated user for the lifetime of the portal
// process. Carts are created lazily on first access and dropped on logout.
type Hub struct {
	engine *discount.Engine

	mu    sync.Mutex
	carts map[int64]*Cart
}

// NewHub creates a Hub whose carts validate discounts with engine.
func NewHub(engine *discount.Engine) *Hub {
	return &Hub{
		engine: engine,
		carts:  make(map[int64]*Cart),
	}
}

// Get returns the cart for userID, creating an empty one on first access.
func (h *Hub) Get(userID int64) *Cart {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.carts[userID]
	if !ok {
		c = New(h.engine)
		h.carts[userID] = c
	}
	return c
}

// Drop discards the cart for userID, if any.
func (h *Hub) Drop(userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.carts, userID)
}
