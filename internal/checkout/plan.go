package checkout

import (
	"github.com/wichananm65/shop-backend/internal/cart"
)

// PlanLine is one entry of a validated order plan. Price is the snapshot
// unit price, carried into the order line untouched.
type PlanLine struct {
	ProductID   int
	ProductName string
	Quantity    int
	Price       float64
}

// Plan is the immutable output of validation: what to order and the exact
// total. It is ready for commit and never recomputed afterwards.
type Plan struct {
	Lines []PlanLine
	Total float64
}

// StockLookup reads the live stock counter for a product.
type StockLookup func(productID int) (int, error)

// BuildPlan validates the snapshot against live stock and computes the
// total. The lookup must read current stock, not the snapshot value: time
// passes between snapshot and commit and other checkouts run concurrently.
// Validation fails fast on the first short line. A zero total (empty or
// all-zero-quantity cart) is rejected.
func BuildPlan(snapshot []cart.Line, liveStock StockLookup) (*Plan, error) {
	if len(snapshot) == 0 {
		return nil, ErrEmptyCart
	}

	plan := &Plan{Lines: make([]PlanLine, 0, len(snapshot))}
	for _, line := range snapshot {
		if line.Quantity <= 0 {
			continue
		}
		available, err := liveStock(line.ProductID)
		if err != nil {
			return nil, err
		}
		if line.Quantity > available {
			return nil, &InsufficientStockError{Product: line.ProductName, Available: available}
		}

		plan.Lines = append(plan.Lines, PlanLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Price:       line.UnitPrice,
		})
		plan.Total += line.UnitPrice * float64(line.Quantity)
	}

	if plan.Total <= 0 {
		return nil, ErrEmptyOrder
	}
	return plan, nil
}
