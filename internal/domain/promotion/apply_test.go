package promotion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/masarepas/arepa-pos/internal/domain/catalog"
)

func arepa(id string, price int64) Item {
	return Item{ProductID: id, Category: catalog.CategoryArepas, UnitPriceCents: price, Quantity: 1}
}

func drink(id string, cat catalog.Category, price int64) Item {
	return Item{ProductID: id, Category: cat, UnitPriceCents: price, Quantity: 1}
}

func TestApply_NilPromotion(t *testing.T) {
	items := []Item{arepa("p1", 10000)}
	assert.Equal(t, int64(10000), Apply(10000, items, nil))
}

func TestApply_FreeDrink(t *testing.T) {
	items := []Item{
		arepa("p1", 10000),
		drink("p2", catalog.CategoryGaseosas, 4000),
	}
	p := &Promotion{Type: TypeFreeDrink, Active: true}

	assert.Equal(t, int64(10000), Apply(14000, items, p))
}

func TestApply_FreeDrink_NoDrinkPresent(t *testing.T) {
	items := []Item{arepa("p1", 10000)}
	p := &Promotion{Type: TypeFreeDrink, Active: true}

	assert.Equal(t, int64(10000), Apply(10000, items, p))
}

func TestApply_FreeDrink_FirstInInputOrder(t *testing.T) {
	// Two drinks with different prices: the first one in input order is
	// discounted even though the second is cheaper.
	items := []Item{
		arepa("p1", 10000),
		drink("p2", catalog.CategoryJugos, 8000),
		drink("p3", catalog.CategoryGaseosas, 4000),
	}
	p := &Promotion{Type: TypeFreeDrink, Active: true}

	assert.Equal(t, int64(14000), Apply(22000, items, p))
}

func TestApply_FreeArepa(t *testing.T) {
	items := []Item{
		drink("p1", catalog.CategoryCafes, 6000),
		arepa("p2", 13000),
		arepa("p3", 8000),
	}
	p := &Promotion{Type: TypeFreeArepa, Active: true}

	assert.Equal(t, int64(14000), Apply(27000, items, p))
}

func TestApply_FreeArepa_OnlyDrinks(t *testing.T) {
	items := []Item{drink("p1", catalog.CategoryJugos, 7000)}
	p := &Promotion{Type: TypeFreeArepa, Active: true}

	assert.Equal(t, int64(7000), Apply(7000, items, p))
}

func TestApply_DiscountPercent(t *testing.T) {
	items := []Item{arepa("p1", 10000)}
	p := &Promotion{Type: TypeDiscountPercent, DiscountPercent: 10, Active: true}

	assert.Equal(t, int64(9000), Apply(10000, items, p))
}

func TestApply_DiscountPercent_Floors(t *testing.T) {
	items := []Item{arepa("p1", 9999)}
	p := &Promotion{Type: TypeDiscountPercent, DiscountPercent: 10, Active: true}

	// 9999 * 90 / 100 = 8999.1, floored to 8999.
	assert.Equal(t, int64(8999), Apply(9999, items, p))
}

func TestApply_DiscountPercent_ZeroPercentIsNoop(t *testing.T) {
	items := []Item{arepa("p1", 10000)}
	p := &Promotion{Type: TypeDiscountPercent, Active: true}

	assert.Equal(t, int64(10000), Apply(10000, items, p))
}

func TestApply_DiscountPercent_Full(t *testing.T) {
	items := []Item{arepa("p1", 10000)}
	p := &Promotion{Type: TypeDiscountPercent, DiscountPercent: 100, Active: true}

	assert.Equal(t, int64(0), Apply(10000, items, p))
}

func TestApply_ClampsAtZero(t *testing.T) {
	// A free drink worth more than the whole cart cannot drive the total
	// negative.
	items := []Item{drink("p1", catalog.CategoryGaseosas, 4000)}
	p := &Promotion{Type: TypeFreeDrink, Active: true}

	assert.Equal(t, int64(0), Apply(1000, items, p))
}

func TestApply_UnknownTypeIsNoop(t *testing.T) {
	items := []Item{arepa("p1", 10000)}
	p := &Promotion{Type: Type("two_for_one"), Active: true}

	assert.Equal(t, int64(10000), Apply(10000, items, p))
}
