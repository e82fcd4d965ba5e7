package sale

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors for sale validation.
var (
	// ErrEmptyCart is returned when a sale is attempted with no items.
	ErrEmptyCart = errors.New("at least one item is required")
	// ErrMissingContact is returned when a non-anonymous sale carries no
	// contact phone.
	ErrMissingContact = errors.New("contact phone is required for a non-anonymous sale")
	// ErrNoSales is returned by Repository.Latest when no sale exists yet.
	ErrNoSales = errors.New("no sales recorded")
)

// InvalidProductError indicates a cart references a product that does not
// exist or is no longer active. The whole sale aborts; nothing is persisted.
type InvalidProductError struct {
	ProductID string
}

func (e *InvalidProductError) Error() string {
	return fmt.Sprintf("invalid product %s", e.ProductID)
}

// InvalidQuantityError indicates a line item has a quantity below one.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be at least 1 for product %s", e.ProductID)
}

// LineItem is one product-quantity entry within a sale. UnitPriceCents is a
// snapshot taken at sale time and is never re-read from the catalog.
// SubtotalCents always equals UnitPriceCents * Quantity.
type LineItem struct {
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	SubtotalCents  int64  `json:"subtotalCents"`
}

// Sale is an immutable record of one completed transaction. CreatedAt is
// UTC epoch milliseconds. There is no update or delete path.
type Sale struct {
	ID            string
	CreatedAt     int64
	Anonymous     bool
	UserPhone     string
	LineItems     []LineItem
	TotalCents    int64
	PromotionID   string
	PromotionName string
}

// Repository defines persistence operations for sales.
type Repository interface {
	Create(ctx context.Context, s *Sale) error
	// ListByCreatedAt returns sales with startMs <= CreatedAt < endMs,
	// ordered by CreatedAt ascending.
	ListByCreatedAt(ctx context.Context, startMs, endMs int64) ([]Sale, error)
	// Latest returns the most recent sale, or ErrNoSales when none exists.
	Latest(ctx context.Context) (*Sale, error)
}
