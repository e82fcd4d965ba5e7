package sale

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/masarepas/arepa-pos/internal/domain/catalog"
	"github.com/masarepas/arepa-pos/internal/domain/promotion"
)

// TxRunner executes a sale-construction callback inside a single storage
// transaction, so the product and promotion reads are consistent with the
// persisted sale and nothing is written when any step fails.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		products catalog.Repository,
		promotions promotion.Repository,
		sales Repository,
	) error) error
}

// CartItem is the caller-supplied part of a line item. Prices are resolved
// from the catalog, never taken from the client.
type CartItem struct {
	ProductID string
	Quantity  int
}

// CreateSaleRequest holds the input for building a sale.
type CreateSaleRequest struct {
	Anonymous   bool
	UserPhone   string
	Items       []CartItem
	PromotionID string
}

// CreateSaleResult holds the outcome of a successfully persisted sale.
// PromotionName is only set when a promotion was actually applied.
type CreateSaleResult struct {
	SaleID        string
	TotalCents    int64
	PromotionName string
}

// Service builds and persists sales. It is the only writer of sale records.
type Service struct {
	txr TxRunner
	now func() time.Time
}

// NewService creates a sale Service backed by the given transaction runner.
func NewService(txr TxRunner) *Service {
	return &Service{txr: txr, now: time.Now}
}

// CreateSale validates the cart, resolves authoritative prices, applies at
// most one promotion, and persists the sale. The operation is all-or-nothing:
// validation and reference failures happen before any write, and the reads
// plus the final insert share one transaction.
func (s *Service) CreateSale(ctx context.Context, req CreateSaleRequest) (*CreateSaleResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if !req.Anonymous && strings.TrimSpace(req.UserPhone) == "" {
		return nil, ErrMissingContact
	}

	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity < 1 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		ids[i] = item.ProductID
	}

	var result CreateSaleResult
	err := s.txr.RunSale(ctx, func(
		products catalog.Repository,
		promotions promotion.Repository,
		sales Repository,
	) error {
		fetched, err := products.GetByIDs(ctx, ids)
		if err != nil {
			return errors.Wrap(err, "get products")
		}
		byID := make(map[string]catalog.Product, len(fetched))
		for _, p := range fetched {
			byID[p.ID] = p
		}

		// Snapshot prices, reject missing or inactive products.
		lineItems := make([]LineItem, len(req.Items))
		promoItems := make([]promotion.Item, len(req.Items))
		var rawTotal int64
		for i, item := range req.Items {
			p, ok := byID[item.ProductID]
			if !ok || !p.Active {
				return &InvalidProductError{ProductID: item.ProductID}
			}
			lineItems[i] = LineItem{
				ProductID:      item.ProductID,
				Quantity:       item.Quantity,
				UnitPriceCents: p.PriceCents,
				SubtotalCents:  p.PriceCents * int64(item.Quantity),
			}
			promoItems[i] = promotion.Item{
				ProductID:      item.ProductID,
				Category:       p.Category,
				UnitPriceCents: p.PriceCents,
				Quantity:       item.Quantity,
			}
			rawTotal += lineItems[i].SubtotalCents
		}

		// A missing or inactive promotion is ignored, not an error.
		var applied *promotion.Promotion
		if req.PromotionID != "" {
			promo, err := promotions.GetByID(ctx, req.PromotionID)
			switch {
			case errors.Is(err, promotion.ErrNotFound):
			case err != nil:
				return errors.Wrapf(err, "get promotion %s", req.PromotionID)
			case promo.Active:
				applied = promo
			}
		}

		totalCents := promotion.Apply(rawTotal, promoItems, applied)

		rec := &Sale{
			ID:         uuid.New().String(),
			CreatedAt:  s.now().UTC().UnixMilli(),
			Anonymous:  req.Anonymous,
			LineItems:  lineItems,
			TotalCents: totalCents,
		}
		if !req.Anonymous {
			rec.UserPhone = strings.TrimSpace(req.UserPhone)
		}
		if applied != nil {
			rec.PromotionID = applied.ID
			rec.PromotionName = applied.Name
		}
		if err := sales.Create(ctx, rec); err != nil {
			return errors.Wrap(err, "create sale")
		}

		result = CreateSaleResult{
			SaleID:        rec.ID,
			TotalCents:    rec.TotalCents,
			PromotionName: rec.PromotionName,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
