package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/masarepas/arepa-pos/internal/domain/catalog"
)

const (
	getProductByIDSQL = `SELECT id, name, category, price_cents, active
		FROM products WHERE id = $1`

	getProductsByIDsSQL = `SELECT id, name, category, price_cents, active
		FROM products WHERE id = ANY($1)`

	listActiveProductsSQL = `SELECT id, name, category, price_cents, active
		FROM products WHERE active = TRUE ORDER BY category, name`

	upsertProductSQL = `INSERT INTO products (id, name, category, price_cents, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, category = EXCLUDED.category,
		    price_cents = EXCLUDED.price_cents, active = EXCLUDED.active`
)

var _ catalog.Repository = (*ProductRepository)(nil)

// ProductRepository implements catalog.Repository backed by PostgreSQL.
type ProductRepository struct {
	db querier
}

// NewProductRepository returns a ProductRepository using the given pool or
// transaction.
func NewProductRepository(db querier) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	rows, err := r.db.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs. Missing IDs are
// simply absent from the result.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]catalog.Product, error) {
	rows, err := r.db.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// ListActive returns every active product ordered by category and name.
func (r *ProductRepository) ListActive(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.db.Query(ctx, listActiveProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing active products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Upsert inserts or updates a product, used by the seeder.
func (r *ProductRepository) Upsert(ctx context.Context, p *catalog.Product) error {
	_, err := r.db.Exec(ctx, upsertProductSQL, p.ID, p.Name, string(p.Category), p.PriceCents, p.Active)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var (
		p        catalog.Product
		category string
	)
	err := row.Scan(&p.ID, &p.Name, &category, &p.PriceCents, &p.Active)
	p.Category = catalog.Category(category)
	return p, err
}
