package cart

import (
	"sort"
	"sync"

	"github.com/wichananm65/shop-backend/internal/product"
)

// Repository provides access to cart rows. LoadSnapshot is the read used by
// checkout: one immutable point-in-time view per call, newest line first.
type Repository interface {
	LoadSnapshot(userID int) ([]Line, error)
	Add(userID, productID, qty int, createdAt string) ([]Line, error)
	UpdateQuantity(userID, cartID, qty int) error
	Remove(userID, cartID int) error
	Clear(userID int) error
}

// InMemoryRepository is used for tests and local scenarios. It is seeded
// with catalog rows so snapshots can join price/stock like the SQL one does.
type InMemoryRepository struct {
	mu       sync.RWMutex
	products map[int]product.Product
	lines    map[int][]Line // keyed by userID
	nextID   int
}

func NewInMemoryRepository(catalog []product.Product) *InMemoryRepository {
	r := &InMemoryRepository{
		products: make(map[int]product.Product, len(catalog)),
		lines:    make(map[int][]Line),
		nextID:   1,
	}
	for _, p := range catalog {
		r.products[p.ID] = p
	}
	return r
}

func (r *InMemoryRepository) LoadSnapshot(userID int) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked(userID), nil
}

func (r *InMemoryRepository) snapshotLocked(userID int) []Line {
	out := make([]Line, 0, len(r.lines[userID]))
	for _, l := range r.lines[userID] {
		if p, ok := r.products[l.ProductID]; ok {
			l.ProductName = p.Name
			l.UnitPrice = p.Price
			l.Stock = p.Stock
		}
		out = append(out, l)
	}
	// newest first, cartID breaks ties
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].CartID > out[j].CartID
	})
	return out
}

func (r *InMemoryRepository) Add(userID, productID, qty int, createdAt string) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[productID]; !ok {
		return nil, product.ErrNotFound
	}

	for i, l := range r.lines[userID] {
		if l.ProductID == productID {
			r.lines[userID][i].Quantity += qty
			return r.snapshotLocked(userID), nil
		}
	}

	r.lines[userID] = append(r.lines[userID], Line{
		CartID:    r.nextID,
		ProductID: productID,
		Quantity:  qty,
		CreatedAt: createdAt,
	})
	r.nextID++
	return r.snapshotLocked(userID), nil
}

func (r *InMemoryRepository) UpdateQuantity(userID, cartID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.lines[userID] {
		if l.CartID == cartID {
			r.lines[userID][i].Quantity = qty
			return nil
		}
	}
	return ErrLineNotFound
}

func (r *InMemoryRepository) Remove(userID, cartID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := r.lines[userID]
	for i, l := range lines {
		if l.CartID == cartID {
			r.lines[userID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

func (r *InMemoryRepository) Clear(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[userID] = nil
	return nil
}

// SetStock adjusts a seeded product's stock so tests can simulate another
// checkout racing ahead of this one.
func (r *InMemoryRepository) SetStock(productID, stock int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[productID]; ok {
		p.Stock = stock
		r.products[productID] = p
	}
}
