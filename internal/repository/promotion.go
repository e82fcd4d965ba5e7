package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/masarepas/arepa-pos/internal/domain/promotion"
)

const (
	getPromotionByIDSQL = `SELECT id, name, type, discount_percent, active
		FROM promotions WHERE id = $1`

	listActivePromotionsSQL = `SELECT id, name, type, discount_percent, active
		FROM promotions WHERE active = TRUE ORDER BY name`

	upsertPromotionSQL = `INSERT INTO promotions (id, name, type, discount_percent, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, type = EXCLUDED.type,
		    discount_percent = EXCLUDED.discount_percent, active = EXCLUDED.active`
)

var _ promotion.Repository = (*PromotionRepository)(nil)

// PromotionRepository implements promotion.Repository backed by PostgreSQL.
type PromotionRepository struct {
	db querier
}

// NewPromotionRepository returns a PromotionRepository using the given pool
// or transaction.
func NewPromotionRepository(db querier) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// GetByID returns a single promotion by its identifier.
func (r *PromotionRepository) GetByID(ctx context.Context, id string) (*promotion.Promotion, error) {
	rows, err := r.db.Query(ctx, getPromotionByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting promotion %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPromotion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, promotion.ErrNotFound
		}
		return nil, fmt.Errorf("getting promotion %q: %w", id, err)
	}
	return &p, nil
}

// ListActive returns every active promotion ordered by name.
func (r *PromotionRepository) ListActive(ctx context.Context) ([]promotion.Promotion, error) {
	rows, err := r.db.Query(ctx, listActivePromotionsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing active promotions: %w", err)
	}
	return pgx.CollectRows(rows, scanPromotion)
}

// Upsert inserts or updates a promotion, used by the seeder.
func (r *PromotionRepository) Upsert(ctx context.Context, p *promotion.Promotion) error {
	_, err := r.db.Exec(ctx, upsertPromotionSQL, p.ID, p.Name, string(p.Type), p.DiscountPercent, p.Active)
	if err != nil {
		return fmt.Errorf("upserting promotion %q: %w", p.ID, err)
	}
	return nil
}

func scanPromotion(row pgx.CollectableRow) (promotion.Promotion, error) {
	var (
		p               promotion.Promotion
		promoType       string
		discountPercent *int32
	)
	err := row.Scan(&p.ID, &p.Name, &promoType, &discountPercent, &p.Active)
	p.Type = promotion.Type(promoType)
	if discountPercent != nil {
		p.DiscountPercent = int(*discountPercent)
	}
	return p, err
}
