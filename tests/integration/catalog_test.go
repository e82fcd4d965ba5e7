//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProductsGrouped(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	menu := decodeJSON[map[string][]menuProduct](t, resp)
	for _, category := range []string{"arepas", "jugos", "cafes", "gaseosas"} {
		if len(menu[category]) == 0 {
			t.Errorf("category %q is empty", category)
		}
	}
}

func TestListProducts_Fields(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	menu := decodeJSON[map[string][]menuProduct](t, resp)

	var patrona *menuProduct
	for i := range menu["arepas"] {
		if menu["arepas"][i].ID == "arepa-la-patrona" {
			patrona = &menu["arepas"][i]
			break
		}
	}

	if patrona == nil {
		t.Fatal("product 'arepa-la-patrona' not found")
	}
	if patrona.Name != "La Patrona" {
		t.Errorf("name: got %q, want %q", patrona.Name, "La Patrona")
	}
	if patrona.PriceCents != 13000 {
		t.Errorf("priceCents: got %d, want 13000", patrona.PriceCents)
	}
}

func TestListPromotions(t *testing.T) {
	resp := doGet(t, "/api/promotions")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	promos := decodeJSON[[]promotionResponse](t, resp)
	if len(promos) != 3 {
		t.Fatalf("expected 3 promotions, got %d", len(promos))
	}

	byType := make(map[string]promotionResponse, len(promos))
	for _, p := range promos {
		byType[p.Type] = p
	}
	for _, typ := range []string{"free_arepa", "free_drink", "discount_percent"} {
		if _, ok := byType[typ]; !ok {
			t.Errorf("promotion type %q missing", typ)
		}
	}
	if byType["discount_percent"].DiscountPercent != 10 {
		t.Errorf("discountPercent: got %d, want 10", byType["discount_percent"].DiscountPercent)
	}
}
