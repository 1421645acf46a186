package product

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const listQuery = `
        SELECT product_id, product_name, product_desc, product_price, stock, product_img, created_at, updated_at
        FROM products
        ORDER BY product_id
    `

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Product, error) {
	rows, err := r.db.Query(listQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(`
        SELECT product_id, product_name, product_desc, product_price, stock, product_img, created_at, updated_at
        FROM products
        WHERE product_id = $1`, id)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var created, updated sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Img, &created, &updated); err != nil {
		return Product{}, err
	}
	p.CreatedAt = created.String
	p.UpdatedAt = updated.String
	return p, nil
}
