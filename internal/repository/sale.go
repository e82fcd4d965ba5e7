package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/masarepas/arepa-pos/internal/domain/sale"
)

const (
	createSaleSQL = `INSERT INTO sales
		(id, created_at, anonymous, user_phone, line_items, total_cents, promotion_id, promotion_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	listSalesByCreatedAtSQL = `SELECT id, created_at, anonymous, user_phone, line_items, total_cents, promotion_id, promotion_name
		FROM sales WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at ASC`

	latestSaleSQL = `SELECT id, created_at, anonymous, user_phone, line_items, total_cents, promotion_id, promotion_name
		FROM sales ORDER BY created_at DESC LIMIT 1`
)

var _ sale.Repository = (*SaleRepository)(nil)

// SaleRepository implements sale.Repository backed by PostgreSQL. Line items
// are stored as JSONB; sales are insert-only.
type SaleRepository struct {
	db querier
}

// NewSaleRepository returns a SaleRepository using the given pool or
// transaction.
func NewSaleRepository(db querier) *SaleRepository {
	return &SaleRepository{db: db}
}

// Create persists a new sale.
func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	itemsJSON, err := json.Marshal(s.LineItems)
	if err != nil {
		return fmt.Errorf("marshaling line items: %w", err)
	}

	_, err = r.db.Exec(ctx, createSaleSQL,
		s.ID, s.CreatedAt, s.Anonymous, nullable(s.UserPhone), itemsJSON,
		s.TotalCents, nullable(s.PromotionID), nullable(s.PromotionName),
	)
	if err != nil {
		return fmt.Errorf("creating sale %q: %w", s.ID, err)
	}
	return nil
}

// ListByCreatedAt returns sales in [startMs, endMs) ordered by creation time
// ascending, via the created_at index.
func (r *SaleRepository) ListByCreatedAt(ctx context.Context, startMs, endMs int64) ([]sale.Sale, error) {
	rows, err := r.db.Query(ctx, listSalesByCreatedAtSQL, startMs, endMs)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	return pgx.CollectRows(rows, scanSale)
}

// Latest returns the most recent sale, or sale.ErrNoSales when the log is
// empty.
func (r *SaleRepository) Latest(ctx context.Context) (*sale.Sale, error) {
	rows, err := r.db.Query(ctx, latestSaleSQL)
	if err != nil {
		return nil, fmt.Errorf("getting latest sale: %w", err)
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanSale)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sale.ErrNoSales
		}
		return nil, fmt.Errorf("getting latest sale: %w", err)
	}
	return &s, nil
}

func scanSale(row pgx.CollectableRow) (sale.Sale, error) {
	var (
		s         sale.Sale
		userPhone *string
		itemsJSON []byte
		promoID   *string
		promoName *string
	)
	err := row.Scan(&s.ID, &s.CreatedAt, &s.Anonymous, &userPhone, &itemsJSON,
		&s.TotalCents, &promoID, &promoName)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(itemsJSON, &s.LineItems); err != nil {
		return s, fmt.Errorf("unmarshaling line items of sale %q: %w", s.ID, err)
	}
	if userPhone != nil {
		s.UserPhone = *userPhone
	}
	if promoID != nil {
		s.PromotionID = *promoID
	}
	if promoName != nil {
		s.PromotionName = *promoName
	}
	return s, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
