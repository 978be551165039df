package product

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAll(ctx context.Context) ([]Product, error) {
	query := `
		SELECT id, name, description, price_cents, type, credits_included, created_at
		FROM products
		ORDER BY type ASC, price_cents ASC
	`

	var products []Product
	err := r.db.SelectContext(ctx, &products, query)
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Product, error) {
	query := `
		SELECT id, name, description, price_cents, type, credits_included, created_at
		FROM products
		WHERE id = $1
	`

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		return nil, err
	}

	return &p, nil
}
