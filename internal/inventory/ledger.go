// Package inventory holds the authoritative stock counters. Reservation is
// a conditional decrement that only succeeds while enough stock remains, so
// two checkouts racing for the last unit can never both win.
package inventory

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrBadQuantity = errors.New("quantity must be positive")
)

// Querier is the slice of database/sql shared by *sql.DB and *sql.Tx.
// TryReserve must be handed the transaction that commits the order, never
// the bare DB handle, or the decrement escapes the order's atomic unit.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

// TryReserve decrements stock by qty if at least qty units remain. It
// reports false with no mutation when stock is short; the row predicate and
// the decrement are a single statement, so concurrent reservations serialize
// on the product row and stock can never go negative.
func (l *Ledger) TryReserve(ctx context.Context, q Querier, productID, qty int) (bool, error) {
	if qty <= 0 {
		return false, ErrBadQuantity
	}

	res, err := q.ExecContext(ctx,
		`UPDATE products SET stock = stock - $1 WHERE product_id = $2 AND stock >= $1`,
		qty, productID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Stock reads the current counter. Outside a transaction the value is
// advisory only; callers must re-validate through TryReserve at commit time.
func (l *Ledger) Stock(ctx context.Context, q Querier, productID int) (int, error) {
	var stock int
	err := q.QueryRowContext(ctx,
		`SELECT stock FROM products WHERE product_id = $1`, productID).Scan(&stock)
	if err != nil {
		return 0, err
	}
	return stock, nil
}
