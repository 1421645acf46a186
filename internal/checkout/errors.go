package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart means there was nothing to check out. Callers should
	// send the user back to the cart view rather than retry.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrEmptyOrder rejects a plan whose total is zero.
	ErrEmptyOrder = errors.New("order total must be positive")

	// ErrCommitFailed wraps infrastructure failures. Nothing was committed,
	// so the caller may retry.
	ErrCommitFailed = errors.New("order placement failed")

	// ErrInvalidTransition rejects payment resolution on an order that is
	// not an online order in the pending state.
	ErrInvalidTransition = errors.New("order is not awaiting payment")
)

// ValidationError reports a missing required checkout field. It is
// user-correctable; retrying without fixing the input will fail again.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// InsufficientStockError carries the offending product and what is left, so
// the caller can render an actionable message without re-querying.
type InsufficientStockError struct {
	Product   string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d", e.Product, e.Available)
}
