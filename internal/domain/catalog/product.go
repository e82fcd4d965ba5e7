package catalog

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Category identifies one of the four fixed menu categories. The set is
// closed: category-dependent promotion and aggregation logic switches over
// these values exhaustively.
type Category string

const (
	CategoryArepas   Category = "arepas"
	CategoryJugos    Category = "jugos"
	CategoryCafes    Category = "cafes"
	CategoryGaseosas Category = "gaseosas"
)

// Categories lists every category in canonical order. Reports that emit one
// row per category iterate this slice so the output is always complete and
// stably ordered.
var Categories = []Category{CategoryArepas, CategoryJugos, CategoryCafes, CategoryGaseosas}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryArepas, CategoryJugos, CategoryCafes, CategoryGaseosas:
		return true
	}
	return false
}

// IsDrink reports whether c belongs to the drink subset used by the
// free_drink promotion and the combo classification.
func (c Category) IsDrink() bool {
	switch c {
	case CategoryJugos, CategoryCafes, CategoryGaseosas:
		return true
	}
	return false
}

// Product represents a menu item. Prices are integer Colombian peso cents;
// the catalog is the only price authority, client-supplied prices are never
// trusted.
type Product struct {
	ID         string
	Name       string
	Category   Category
	PriceCents int64
	Active     bool
}

// Repository defines read operations over the product catalog.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	ListActive(ctx context.Context) ([]Product, error)
}
