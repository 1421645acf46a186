package checkout

import (
	"context"

	"github.com/wichananm65/shop-backend/internal/order"
)

// Store owns the transaction boundary for order placement. A Tx spans one
// PlaceOrder (or payment resolution) call; every mutation inside it commits
// or rolls back as a unit.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	// LiveStock is the non-transactional read used at validation time,
	// immediately before Begin. It narrows the race window; the in-tx
	// reservation closes it.
	LiveStock(ctx context.Context, productID int) (int, error)
}

type Tx interface {
	InsertOrder(ctx context.Context, ord order.Order, lines []order.Line) (int, error)
	ReserveStock(ctx context.Context, productID, qty int) (bool, error)
	Stock(ctx context.Context, productID int) (int, error)
	ClearCart(ctx context.Context, userID int) error
	SetOrderOutcome(ctx context.Context, orderID int, status order.Status, payStatus order.PaymentStatus) error
	// GetOrderForUpdate locks and loads the order with its lines, for the
	// payment resolution transition.
	GetOrderForUpdate(ctx context.Context, orderID int) (order.Order, error)
	Commit() error
	Rollback() error
}
