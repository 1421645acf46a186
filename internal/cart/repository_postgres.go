package cart

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const snapshotQuery = `
        SELECT c.cart_id, c.product_id, p.product_name, c.quantity, p.product_price, p.stock, c.created_at
        FROM cart c
        JOIN products p ON p.product_id = c.product_id
        WHERE c.user_id = $1
        ORDER BY c.created_at DESC, c.cart_id DESC
    `

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) LoadSnapshot(userID int) ([]Line, error) {
	rows, err := r.db.Query(snapshotQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Line, 0)
	for rows.Next() {
		var l Line
		var created sql.NullString
		if err := rows.Scan(&l.CartID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice, &l.Stock, &created); err != nil {
			return nil, err
		}
		l.CreatedAt = created.String
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Add(userID, productID, qty int, createdAt string) ([]Line, error) {
	_, err := r.db.Exec(`
        INSERT INTO cart (user_id, product_id, quantity, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, product_id)
        DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity`,
		userID, productID, qty, createdAt)
	if err != nil {
		return nil, err
	}
	return r.LoadSnapshot(userID)
}

func (r *PostgresRepository) UpdateQuantity(userID, cartID, qty int) error {
	res, err := r.db.Exec(`UPDATE cart SET quantity = $1 WHERE cart_id = $2 AND user_id = $3`, qty, cartID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *PostgresRepository) Remove(userID, cartID int) error {
	res, err := r.db.Exec(`DELETE FROM cart WHERE cart_id = $1 AND user_id = $2`, cartID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *PostgresRepository) Clear(userID int) error {
	_, err := r.db.Exec(`DELETE FROM cart WHERE user_id = $1`, userID)
	return err
}
