package promotion

import (
	"github.com/masarepas/arepa-pos/internal/domain/catalog"
)

// Item is a cart line item with its category resolved, as seen by the
// promotion evaluator. Prices are integer cents.
type Item struct {
	ProductID      string
	Category       catalog.Category
	UnitPriceCents int64
	Quantity       int
}

// Apply evaluates a promotion rule against the raw cart total and returns the
// adjusted total, clamped at zero. It is a pure function with no storage
// access so the business rules are testable with literal inputs.
//
// The free_arepa and free_drink rules discount the first matching line item
// in input order, not the cheapest one. That tie-break is load-bearing for
// recorded totals; do not change it without a product decision.
func Apply(totalCents int64, items []Item, p *Promotion) int64 {
	if p == nil {
		return clamp(totalCents)
	}

	switch p.Type {
	case TypeFreeArepa:
		if it := firstMatch(items, func(c catalog.Category) bool { return c == catalog.CategoryArepas }); it != nil {
			totalCents -= it.UnitPriceCents
		}
	case TypeFreeDrink:
		if it := firstMatch(items, catalog.Category.IsDrink); it != nil {
			totalCents -= it.UnitPriceCents
		}
	case TypeDiscountPercent:
		if p.DiscountPercent > 0 {
			// Integer division floors: 9999 at 10% off becomes 8999.
			totalCents = totalCents * int64(100-p.DiscountPercent) / 100
		}
	}

	return clamp(totalCents)
}

// firstMatch returns the first item whose category satisfies pred, or nil.
func firstMatch(items []Item, pred func(catalog.Category) bool) *Item {
	for i := range items {
		if pred(items[i].Category) {
			return &items[i]
		}
	}
	return nil
}

func clamp(cents int64) int64 {
	if cents < 0 {
		return 0
	}
	return cents
}
