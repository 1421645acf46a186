package user

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const selectUser = `
        SELECT user_id, email, password, full_name, phone, address, created_at, updated_at
        FROM users
    `

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	return scanUser(r.db.QueryRow(selectUser+`WHERE user_id = $1`, id))
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	return scanUser(r.db.QueryRow(selectUser+`WHERE email = $1`, email))
}

func (r *PostgresRepository) Create(u User) (User, error) {
	err := r.db.QueryRow(`
        INSERT INTO users (email, password, full_name, phone, address, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING user_id`,
		u.Email, u.Password, u.FullName, u.Phone, u.Address, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Update(id int, u User) (User, error) {
	res, err := r.db.Exec(`
        UPDATE users SET full_name = $1, phone = $2, address = $3, updated_at = $4
        WHERE user_id = $5`,
		u.FullName, u.Phone, u.Address, u.UpdatedAt, id)
	if err != nil {
		return User{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if affected == 0 {
		return User{}, ErrNotFound
	}
	u.ID = id
	return u, nil
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	var phone, address, created, updated sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &phone, &address, &created, &updated)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.Phone = phone.String
	u.Address = address.String
	u.CreatedAt = created.String
	u.UpdatedAt = updated.String
	return u, nil
}
