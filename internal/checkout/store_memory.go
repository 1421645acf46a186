package checkout

import (
	"context"
	"sort"
	"sync"

	"github.com/wichananm65/shop-backend/internal/cart"
	"github.com/wichananm65/shop-backend/internal/order"
	"github.com/wichananm65/shop-backend/internal/product"
)

// MemoryStore implements Store (and the snapshot loader) in memory, used
// for tests and local scenarios. A transaction holds the store lock from
// Begin to Commit/Rollback, which mirrors how the row locks serialize
// concurrent checkouts against the same products.
type MemoryStore struct {
	mu          sync.Mutex
	products    map[int]product.Product
	carts       map[int][]cart.Line
	orders      map[int]order.Order
	nextCartID  int
	nextOrderID int
}

func NewMemoryStore(catalog []product.Product) *MemoryStore {
	s := &MemoryStore{
		products:    make(map[int]product.Product, len(catalog)),
		carts:       make(map[int][]cart.Line),
		orders:      make(map[int]order.Order),
		nextCartID:  1,
		nextOrderID: 1,
	}
	for _, p := range catalog {
		s.products[p.ID] = p
	}
	return s
}

// AddCartLine seeds a cart row. Later calls produce newer lines.
func (s *MemoryStore) AddCartLine(userID, productID, qty int, createdAt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = append(s.carts[userID], cart.Line{
		CartID:    s.nextCartID,
		ProductID: productID,
		Quantity:  qty,
		CreatedAt: createdAt,
	})
	s.nextCartID++
}

// LoadSnapshot joins cart rows with the catalog, newest line first.
func (s *MemoryStore) LoadSnapshot(userID int) ([]cart.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]cart.Line, 0, len(s.carts[userID]))
	for _, l := range s.carts[userID] {
		if p, ok := s.products[l.ProductID]; ok {
			l.ProductName = p.Name
			l.UnitPrice = p.Price
			l.Stock = p.Stock
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].CartID > out[j].CartID
	})
	return out, nil
}

func (s *MemoryStore) LiveStock(ctx context.Context, productID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return 0, product.ErrNotFound
	}
	return p.Stock, nil
}

func (s *MemoryStore) Begin(ctx context.Context) (Tx, error) {
	s.mu.Lock()
	return &memoryTx{store: s, undo: s.copyState()}, nil
}

// StockOf reads current stock for assertions.
func (s *MemoryStore) StockOf(productID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].Stock
}

// CartSize reports how many lines a user's cart holds.
func (s *MemoryStore) CartSize(userID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts[userID])
}

// Orders returns a copy of all committed orders.
func (s *MemoryStore) Orders() []order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]order.Order, 0, len(s.orders))
	for _, ord := range s.orders {
		out = append(out, ord)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out
}

type storeState struct {
	products map[int]product.Product
	carts    map[int][]cart.Line
	orders   map[int]order.Order
}

func (s *MemoryStore) copyState() storeState {
	st := storeState{
		products: make(map[int]product.Product, len(s.products)),
		carts:    make(map[int][]cart.Line, len(s.carts)),
		orders:   make(map[int]order.Order, len(s.orders)),
	}
	for id, p := range s.products {
		st.products[id] = p
	}
	for uid, lines := range s.carts {
		cp := make([]cart.Line, len(lines))
		copy(cp, lines)
		st.carts[uid] = cp
	}
	for id, ord := range s.orders {
		lines := make([]order.Line, len(ord.Lines))
		copy(lines, ord.Lines)
		ord.Lines = lines
		st.orders[id] = ord
	}
	return st
}

type memoryTx struct {
	store *MemoryStore
	undo  storeState
	done  bool
}

func (t *memoryTx) InsertOrder(ctx context.Context, ord order.Order, lines []order.Line) (int, error) {
	s := t.store
	ord.OrderID = s.nextOrderID
	s.nextOrderID++
	ord.Lines = make([]order.Line, len(lines))
	for i, l := range lines {
		l.OrderID = ord.OrderID
		ord.Lines[i] = l
	}
	s.orders[ord.OrderID] = ord
	return ord.OrderID, nil
}

func (t *memoryTx) ReserveStock(ctx context.Context, productID, qty int) (bool, error) {
	s := t.store
	p, ok := s.products[productID]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	s.products[productID] = p
	return true, nil
}

func (t *memoryTx) Stock(ctx context.Context, productID int) (int, error) {
	return t.store.products[productID].Stock, nil
}

func (t *memoryTx) ClearCart(ctx context.Context, userID int) error {
	delete(t.store.carts, userID)
	return nil
}

func (t *memoryTx) SetOrderOutcome(ctx context.Context, orderID int, status order.Status, payStatus order.PaymentStatus) error {
	ord, ok := t.store.orders[orderID]
	if !ok {
		return order.ErrNotFound
	}
	ord.Status = status
	ord.PaymentStatus = payStatus
	t.store.orders[orderID] = ord
	return nil
}

func (t *memoryTx) GetOrderForUpdate(ctx context.Context, orderID int) (order.Order, error) {
	ord, ok := t.store.orders[orderID]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	lines := make([]order.Line, len(ord.Lines))
	copy(lines, ord.Lines)
	ord.Lines = lines
	return ord, nil
}

func (t *memoryTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *memoryTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	s := t.store
	s.products = t.undo.products
	s.carts = t.undo.carts
	s.orders = t.undo.orders
	s.mu.Unlock()
	return nil
}
