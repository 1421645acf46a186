package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wichananm65/shop-backend/internal/cart"
	"github.com/wichananm65/shop-backend/internal/order"
)

// SnapshotLoader reads a user's cart as an immutable point-in-time view.
type SnapshotLoader interface {
	LoadSnapshot(userID int) ([]cart.Line, error)
}

// Receipt is what a successful PlaceOrder hands back. TotalAmount is
// included so the payment-initiation caller does not have to re-query.
type Receipt struct {
	OrderID       int           `json:"orderId"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentRef    string        `json:"paymentRef,omitempty"`
}

// Service is the checkout orchestrator: it owns the transaction boundary
// and branches between the immediate (COD) and deferred (online) commit
// strategies. It never retries; retry policy belongs to the caller.
type Service struct {
	snapshots SnapshotLoader
	store     Store
	now       func() time.Time
}

func NewService(snapshots SnapshotLoader, store Store) *Service {
	return &Service{
		snapshots: snapshots,
		store:     store,
		now:       time.Now,
	}
}

// PlaceOrder converts the user's cart into a committed order. All effects
// of one call are atomic: on any failure nothing persists and the returned
// error says whether the caller should fix input, go back to the cart,
// adjust a quantity, or retry.
func (s *Service) PlaceOrder(ctx context.Context, userID int, shippingAddress, phone, paymentMethod string) (Receipt, error) {
	if shippingAddress == "" {
		return Receipt{}, &ValidationError{Field: "shippingAddress"}
	}
	if phone == "" {
		return Receipt{}, &ValidationError{Field: "phone"}
	}
	method := NormalizePaymentMethod(paymentMethod)

	snapshot, err := s.snapshots.LoadSnapshot(userID)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	if len(snapshot) == 0 {
		return Receipt{}, ErrEmptyCart
	}

	// validate against live stock immediately before the transaction
	plan, err := BuildPlan(snapshot, func(productID int) (int, error) {
		return s.store.LiveStock(ctx, productID)
	})
	if err != nil {
		return Receipt{}, classify(err)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	receipt, err := s.placeOrderTx(ctx, tx, userID, shippingAddress, phone, method, plan)
	if err != nil {
		tx.Rollback()
		return Receipt{}, classify(err)
	}
	if err := tx.Commit(); err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	return receipt, nil
}

func (s *Service) placeOrderTx(ctx context.Context, tx Tx, userID int, shippingAddress, phone string, method PaymentMethod, plan *Plan) (Receipt, error) {
	ord := order.Order{
		UserID:          userID,
		TotalAmount:     plan.Total,
		Status:          order.StatusPending,
		ShippingAddress: shippingAddress,
		Phone:           phone,
		PaymentMethod:   string(method),
		PaymentStatus:   order.PaymentPending,
		CreatedAt:       s.now().UTC().Format(time.RFC3339),
	}
	if method.Online() {
		// reference handed to the payment collaborator
		ord.PaymentRef = uuid.NewString()
	}

	lines := make([]order.Line, 0, len(plan.Lines))
	for _, pl := range plan.Lines {
		lines = append(lines, order.Line{
			ProductID: pl.ProductID,
			Quantity:  pl.Quantity,
			Price:     pl.Price,
		})
	}

	orderID, err := tx.InsertOrder(ctx, ord, lines)
	if err != nil {
		return Receipt{}, err
	}

	if err := method.strategy().commit(ctx, tx, userID, orderID, plan); err != nil {
		return Receipt{}, err
	}

	return Receipt{
		OrderID:       orderID,
		TotalAmount:   plan.Total,
		PaymentMethod: method,
		PaymentRef:    ord.PaymentRef,
	}, nil
}

// ResolvePayment applies the outcome of the external payment confirmation
// step to an online order: success reserves stock, clears the cart and
// settles the order; failure cancels it. Only a pending online order may
// transition, and the transition is terminal either way.
func (s *Service) ResolvePayment(ctx context.Context, orderID int, paid bool) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	if err := s.resolvePaymentTx(ctx, tx, orderID, paid); err != nil {
		tx.Rollback()
		return classify(err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	return nil
}

func (s *Service) resolvePaymentTx(ctx context.Context, tx Tx, orderID int, paid bool) error {
	ord, err := tx.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		return err
	}
	if !NormalizePaymentMethod(ord.PaymentMethod).Online() {
		return ErrInvalidTransition
	}
	if ord.Status != order.StatusPending || ord.PaymentStatus != order.PaymentPending {
		return ErrInvalidTransition
	}

	if !paid {
		return tx.SetOrderOutcome(ctx, orderID, order.StatusCancelled, order.PaymentFailed)
	}

	for _, l := range ord.Lines {
		ok, err := tx.ReserveStock(ctx, l.ProductID, l.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			available, err := tx.Stock(ctx, l.ProductID)
			if err != nil {
				return err
			}
			// order stays pending; refund/retry is the collaborator's call
			return &InsufficientStockError{Product: fmt.Sprintf("product %d", l.ProductID), Available: available}
		}
	}
	if err := tx.ClearCart(ctx, ord.UserID); err != nil {
		return err
	}
	return tx.SetOrderOutcome(ctx, orderID, order.StatusConfirmed, order.PaymentPaid)
}

// classify keeps taxonomy errors intact and wraps everything else as a
// generic commit failure.
func classify(err error) error {
	var vErr *ValidationError
	var stockErr *InsufficientStockError
	switch {
	case errors.As(err, &vErr),
		errors.As(err, &stockErr),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrEmptyOrder),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, ErrCommitFailed):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
}
