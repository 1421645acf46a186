package cart

import (
	"errors"
	"fmt"
)

var (
	ErrLineNotFound = errors.New("cart line not found")
)

// StockError reports an advisory stock check failure when editing the cart.
// The definitive check happens again inside the checkout transaction.
type StockError struct {
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Insufficient stock. Available: %d", e.Available)
}

// Line is one cart row joined with the product it points at. UnitPrice and
// Stock are captured at read time and go stale the moment another checkout
// commits; they are advisory values for display and pre-validation only.
type Line struct {
	CartID      int     `json:"cartId"`
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Stock       int     `json:"stock"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

// Subtotal is the line's contribution to the cart total.
func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}
