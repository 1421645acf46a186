package order

import (
	"sort"
	"sync"
)

// Repository defines the read side for orders. Writes happen on the
// checkout transaction via CreateTx / UpdateOutcomeTx.
type Repository interface {
	ListByUser(userID int) ([]Order, error)
	GetByID(orderID int) (Order, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	r := &InMemoryRepository{orders: make([]Order, 0, len(seed))}
	r.orders = append(r.orders, seed...)
	return r
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.UserID == userID {
			out = append(out, ord)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderID > out[j].OrderID })
	return out, nil
}

func (r *InMemoryRepository) GetByID(orderID int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ord := range r.orders {
		if ord.OrderID == orderID {
			return ord, nil
		}
	}
	return Order{}, ErrNotFound
}
