package payers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the payer master list store.
type Repository interface {
	List(ctx context.Context) ([]Payer, error)
	Get(ctx context.Context, id int64) (Payer, error)
	Match(ctx context.Context, payerName string) (Payer, error)
	Create(ctx context.Context, p Payer) (Payer, error)
	Update(ctx context.Context, p Payer) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns the pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Payer, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name, short_name, recon_class FROM payers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payer
	for rows.Next() {
		var p Payer
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.ShortName, &p.ReconClass); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Payer, error) {
	var p Payer
	err := r.db.QueryRow(ctx, `SELECT id, code, name, short_name, recon_class FROM payers WHERE id = $1`, id).
		Scan(&p.ID, &p.Code, &p.Name, &p.ShortName, &p.ReconClass)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payer{}, ErrNotFound
	}
	return p, err
}

// Match finds the payer record whose name or short name appears in the
// document's payer field, case-insensitively. Used by the reprocess job.
func (r *repository) Match(ctx context.Context, payerName string) (Payer, error) {
	var p Payer
	err := r.db.QueryRow(ctx, `SELECT id, code, name, short_name, recon_class FROM payers
		WHERE $1 ILIKE '%' || name || '%' OR $1 ILIKE '%' || short_name || '%'
		ORDER BY length(name) DESC LIMIT 1`, payerName).
		Scan(&p.ID, &p.Code, &p.Name, &p.ShortName, &p.ReconClass)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payer{}, ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, p Payer) (Payer, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO payers (code, name, short_name, recon_class)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		p.Code, p.Name, p.ShortName, p.ReconClass).Scan(&p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Payer{}, ErrCodeExists
		}
		return Payer{}, err
	}
	return p, nil
}

func (r *repository) Update(ctx context.Context, p Payer) error {
	tag, err := r.db.Exec(ctx, `UPDATE payers SET code = $1, name = $2, short_name = $3, recon_class = $4 WHERE id = $5`,
		p.Code, p.Name, p.ShortName, p.ReconClass, p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrCodeExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
