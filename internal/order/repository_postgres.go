package order

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateTx inserts the order and its lines on the caller's transaction and
// returns the generated order id. Nothing becomes visible until the caller
// commits; on rollback the order never existed.
func CreateTx(ctx context.Context, tx *sql.Tx, ord Order, lines []Line) (int, error) {
	var orderID int
	err := tx.QueryRowContext(ctx, `
        INSERT INTO orders (user_id, total_amount, status, shipping_address, phone, payment_method, payment_status, payment_ref, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING order_id`,
		ord.UserID, ord.TotalAmount, ord.Status, ord.ShippingAddress, ord.Phone,
		ord.PaymentMethod, ord.PaymentStatus, ord.PaymentRef, ord.CreatedAt).Scan(&orderID)
	if err != nil {
		return 0, err
	}

	for _, l := range lines {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO order_items (order_id, product_id, quantity, price)
            VALUES ($1, $2, $3, $4)`,
			orderID, l.ProductID, l.Quantity, l.Price); err != nil {
			return 0, err
		}
	}
	return orderID, nil
}

// UpdateOutcomeTx moves an order to a new status pair on the caller's
// transaction. Transition legality is the checkout service's job.
func UpdateOutcomeTx(ctx context.Context, tx *sql.Tx, orderID int, status Status, payStatus PaymentStatus) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, payment_status = $2 WHERE order_id = $3`,
		status, payStatus, orderID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

const selectOrder = `
        SELECT order_id, user_id, total_amount, status, shipping_address, phone, payment_method, payment_status, payment_ref, created_at
        FROM orders
    `

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	rows, err := r.db.Query(selectOrder+`WHERE user_id = $1 ORDER BY order_id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	ids := make([]int, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
		ids = append(ids, ord.OrderID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	lineRows, err := r.db.Query(`
        SELECT order_id, product_id, quantity, price
        FROM order_items
        WHERE order_id = ANY($1::int[])
        ORDER BY order_id DESC, product_id`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()

	byOrder := make(map[int][]Line, len(ids))
	for lineRows.Next() {
		var l Line
		if err := lineRows.Scan(&l.OrderID, &l.ProductID, &l.Quantity, &l.Price); err != nil {
			return nil, err
		}
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}
	if err := lineRows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = byOrder[orders[i].OrderID]
	}
	return orders, nil
}

func (r *PostgresRepository) GetByID(orderID int) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(selectOrder+`WHERE order_id = $1`, orderID))
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}

	rows, err := r.db.Query(`
        SELECT order_id, product_id, quantity, price
        FROM order_items
        WHERE order_id = $1
        ORDER BY product_id`, orderID)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.Quantity, &l.Price); err != nil {
			return Order{}, err
		}
		ord.Lines = append(ord.Lines, l)
	}
	return ord, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var ref sql.NullString
	err := row.Scan(&ord.OrderID, &ord.UserID, &ord.TotalAmount, &ord.Status, &ord.ShippingAddress,
		&ord.Phone, &ord.PaymentMethod, &ord.PaymentStatus, &ref, &ord.CreatedAt)
	if err != nil {
		return Order{}, err
	}
	ord.PaymentRef = ref.String
	return ord, nil
}
