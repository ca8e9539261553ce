package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the accounts store.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) error
	SetStatus(ctx context.Context, id int64, status string) error
	ReplacePlants(ctx context.Context, id int64, plants []string) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns the pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, email, role, status FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	byID := make(map[int64]int)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status); err != nil {
			return nil, err
		}
		byID[u.ID] = len(out)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	plantRows, err := r.db.Query(ctx, `SELECT user_id, plant FROM user_plants ORDER BY plant`)
	if err != nil {
		return nil, err
	}
	defer plantRows.Close()
	for plantRows.Next() {
		var userID int64
		var plant string
		if err := plantRows.Scan(&userID, &plant); err != nil {
			return nil, err
		}
		if i, ok := byID[userID]; ok {
			out[i].Plants = append(out[i].Plants, plant)
		}
	}
	return out, plantRows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.db.QueryRow(ctx, `SELECT id, name, email, role, status FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}

	rows, err := r.db.Query(ctx, `SELECT plant FROM user_plants WHERE user_id = $1 ORDER BY plant`, id)
	if err != nil {
		return User{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var plant string
		if err := rows.Scan(&plant); err != nil {
			return User{}, err
		}
		u.Plants = append(u.Plants, plant)
	}
	return u, rows.Err()
}

func (r *repository) Create(ctx context.Context, u User) (User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return User{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `INSERT INTO users (name, email, role, status) VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Name, u.Email, u.Role, u.Status).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}
	for _, plant := range u.Plants {
		if _, err := tx.Exec(ctx, `INSERT INTO user_plants (user_id, plant) VALUES ($1, $2)`, u.ID, plant); err != nil {
			return User{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *repository) Update(ctx context.Context, u User) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET name = $1, email = $2, role = $3, status = $4 WHERE id = $5`,
		u.Name, u.Email, u.Role, u.Status, u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SetStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ReplacePlants(ctx context.Context, id int64, plants []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `SELECT id FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM user_plants WHERE user_id = $1`, id); err != nil {
		return err
	}
	for _, plant := range plants {
		if _, err := tx.Exec(ctx, `INSERT INTO user_plants (user_id, plant) VALUES ($1, $2)`, id, plant); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
