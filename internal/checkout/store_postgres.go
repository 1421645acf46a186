package checkout

import (
	"context"
	"database/sql"

	"github.com/wichananm65/shop-backend/internal/inventory"
	"github.com/wichananm65/shop-backend/internal/order"
)

// PostgresStore runs checkout transactions on a Postgres database, with the
// inventory ledger doing the guarded stock decrements.
type PostgresStore struct {
	db     *sql.DB
	ledger *inventory.Ledger
}

func NewPostgresStore(db *sql.DB, ledger *inventory.Ledger) *PostgresStore {
	return &PostgresStore{db: db, ledger: ledger}
}

func (s *PostgresStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &postgresTx{tx: tx, ledger: s.ledger}, nil
}

func (s *PostgresStore) LiveStock(ctx context.Context, productID int) (int, error) {
	return s.ledger.Stock(ctx, s.db, productID)
}

type postgresTx struct {
	tx     *sql.Tx
	ledger *inventory.Ledger
}

func (t *postgresTx) InsertOrder(ctx context.Context, ord order.Order, lines []order.Line) (int, error) {
	return order.CreateTx(ctx, t.tx, ord, lines)
}

func (t *postgresTx) ReserveStock(ctx context.Context, productID, qty int) (bool, error) {
	return t.ledger.TryReserve(ctx, t.tx, productID, qty)
}

func (t *postgresTx) Stock(ctx context.Context, productID int) (int, error) {
	return t.ledger.Stock(ctx, t.tx, productID)
}

func (t *postgresTx) ClearCart(ctx context.Context, userID int) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM cart WHERE user_id = $1`, userID)
	return err
}

func (t *postgresTx) SetOrderOutcome(ctx context.Context, orderID int, status order.Status, payStatus order.PaymentStatus) error {
	return order.UpdateOutcomeTx(ctx, t.tx, orderID, status, payStatus)
}

func (t *postgresTx) GetOrderForUpdate(ctx context.Context, orderID int) (order.Order, error) {
	var ord order.Order
	var ref sql.NullString
	err := t.tx.QueryRowContext(ctx, `
        SELECT order_id, user_id, total_amount, status, shipping_address, phone, payment_method, payment_status, payment_ref, created_at
        FROM orders
        WHERE order_id = $1
        FOR UPDATE`, orderID).Scan(
		&ord.OrderID, &ord.UserID, &ord.TotalAmount, &ord.Status, &ord.ShippingAddress,
		&ord.Phone, &ord.PaymentMethod, &ord.PaymentStatus, &ref, &ord.CreatedAt)
	if err == sql.ErrNoRows {
		return order.Order{}, order.ErrNotFound
	}
	if err != nil {
		return order.Order{}, err
	}
	ord.PaymentRef = ref.String

	rows, err := t.tx.QueryContext(ctx, `
        SELECT order_id, product_id, quantity, price
        FROM order_items
        WHERE order_id = $1
        ORDER BY product_id`, orderID)
	if err != nil {
		return order.Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var l order.Line
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.Quantity, &l.Price); err != nil {
			return order.Order{}, err
		}
		ord.Lines = append(ord.Lines, l)
	}
	return ord, rows.Err()
}

func (t *postgresTx) Commit() error {
	return t.tx.Commit()
}

func (t *postgresTx) Rollback() error {
	return t.tx.Rollback()
}
