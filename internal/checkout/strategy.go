package checkout

import (
	"context"

	"github.com/wichananm65/shop-backend/internal/order"
)

// CommitStrategy is the payment-method-specific tail of the checkout
// transaction, run after the order rows are inserted and before commit.
type CommitStrategy interface {
	commit(ctx context.Context, tx Tx, userID, orderID int, plan *Plan) error
}

// immediateReserve is the COD path: stock is committed and the cart cleared
// in the same transaction as the order. Any reservation failure aborts the
// whole call, order rows included.
type immediateReserve struct{}

func (immediateReserve) commit(ctx context.Context, tx Tx, userID, orderID int, plan *Plan) error {
	for _, line := range plan.Lines {
		ok, err := tx.ReserveStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			// stock moved between validation and commit
			available, err := tx.Stock(ctx, line.ProductID)
			if err != nil {
				return err
			}
			return &InsufficientStockError{Product: line.ProductName, Available: available}
		}
	}

	if err := tx.ClearCart(ctx, userID); err != nil {
		return err
	}
	// cash settles at delivery; the engine's commit is the terminal state
	return tx.SetOrderOutcome(ctx, orderID, order.StatusConfirmed, order.PaymentPaid)
}

// deferredReserve is the online-payment path: only the pending order rows
// commit. Stock and cart are untouched until payment resolution.
type deferredReserve struct{}

func (deferredReserve) commit(ctx context.Context, tx Tx, userID, orderID int, plan *Plan) error {
	return nil
}
