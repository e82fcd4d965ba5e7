package promotion

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested promotion does not exist.
var ErrNotFound = errors.New("promotion not found")

// Type enumerates the three supported promotion rules.
type Type string

const (
	// TypeFreeArepa removes the unit price of the first arepa line item.
	TypeFreeArepa Type = "free_arepa"
	// TypeFreeDrink removes the unit price of the first drink line item.
	TypeFreeDrink Type = "free_drink"
	// TypeDiscountPercent applies a percentage discount with floor semantics.
	TypeDiscountPercent Type = "discount_percent"
)

// Promotion is a total-adjustment rule applied at most once per sale.
type Promotion struct {
	ID   string
	Name string
	Type Type
	// DiscountPercent is only meaningful for TypeDiscountPercent; zero means
	// the rule is a no-op.
	DiscountPercent int
	Active          bool
}

// Repository defines read operations over promotions.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Promotion, error)
	ListActive(ctx context.Context) ([]Promotion, error)
}
