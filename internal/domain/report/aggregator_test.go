package report

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masarepas/arepa-pos/internal/domain/catalog"
	"github.com/masarepas/arepa-pos/internal/domain/sale"
)

// --- Mock implementations ---

type mockSaleRepo struct {
	sales []sale.Sale
}

func (m *mockSaleRepo) Create(_ context.Context, s *sale.Sale) error {
	m.sales = append(m.sales, *s)
	return nil
}

func (m *mockSaleRepo) ListByCreatedAt(_ context.Context, startMs, endMs int64) ([]sale.Sale, error) {
	var out []sale.Sale
	for _, s := range m.sales {
		if s.CreatedAt >= startMs && s.CreatedAt < endMs {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (m *mockSaleRepo) Latest(_ context.Context) (*sale.Sale, error) {
	if len(m.sales) == 0 {
		return nil, sale.ErrNoSales
	}
	latest := m.sales[0]
	for _, s := range m.sales[1:] {
		if s.CreatedAt > latest.CreatedAt {
			latest = s
		}
	}
	return &latest, nil
}

type mockProductRepo struct {
	byID map[string]catalog.Product
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) ListActive(_ context.Context) ([]catalog.Product, error) {
	return nil, nil
}

// --- Helpers ---

var testMenu = map[string]catalog.Product{
	"arepa-1": {ID: "arepa-1", Name: "La Patrona", Category: catalog.CategoryArepas, PriceCents: 13000, Active: true},
	"arepa-2": {ID: "arepa-2", Name: "La Sencilla", Category: catalog.CategoryArepas, PriceCents: 8000, Active: true},
	"jugo-1":  {ID: "jugo-1", Name: "El Intenso (Agua)", Category: catalog.CategoryJugos, PriceCents: 7000, Active: true},
	"cafe-1":  {ID: "cafe-1", Name: "Capuchino", Category: catalog.CategoryCafes, PriceCents: 6000, Active: true},
	"gas-1":   {ID: "gas-1", Name: "Gaseosa 400ml", Category: catalog.CategoryGaseosas, PriceCents: 4000, Active: true},
}

// utcMs returns the epoch milliseconds of the given UTC wall-clock time on a
// fixed test day.
func utcMs(hour, minute int) int64 {
	return time.Date(2024, 3, 1, hour, minute, 0, 0, time.UTC).UnixMilli()
}

var (
	dayStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	dayEnd   = time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC).UnixMilli()
)

func li(productID string, qty int) sale.LineItem {
	p := testMenu[productID]
	return sale.LineItem{
		ProductID:      productID,
		Quantity:       qty,
		UnitPriceCents: p.PriceCents,
		SubtotalCents:  p.PriceCents * int64(qty),
	}
}

func newSale(id string, createdAt int64, items ...sale.LineItem) sale.Sale {
	var total int64
	for _, it := range items {
		total += it.SubtotalCents
	}
	return sale.Sale{ID: id, CreatedAt: createdAt, Anonymous: true, LineItems: items, TotalCents: total}
}

func newTestAggregator(sales ...sale.Sale) *Aggregator {
	return NewAggregator(
		&mockSaleRepo{sales: sales},
		&mockProductRepo{byID: testMenu},
		nil,
	)
}

// --- SalesPerHour ---

func TestSalesPerHour_EmptyRange(t *testing.T) {
	agg := newTestAggregator()

	buckets, err := agg.SalesPerHour(context.Background(), dayStart, dayEnd, 0)
	require.NoError(t, err)
	require.Len(t, buckets, 13)

	for i, b := range buckets {
		assert.Equal(t, 8+i, b.Hour)
		assert.Zero(t, b.TotalCents)
		assert.Zero(t, b.Count)
	}
	assert.Equal(t, "08:00", buckets[0].Label)
	assert.Equal(t, "20:00", buckets[12].Label)
}

func TestSalesPerHour_BucketsByUTCHour(t *testing.T) {
	agg := newTestAggregator(
		newSale("s1", utcMs(9, 15), li("arepa-1", 1)),
		newSale("s2", utcMs(9, 45), li("cafe-1", 2)),
		newSale("s3", utcMs(20, 59), li("gas-1", 1)),
	)

	buckets, err := agg.SalesPerHour(context.Background(), dayStart, dayEnd, 0)
	require.NoError(t, err)

	nine := buckets[1]
	assert.Equal(t, 9, nine.Hour)
	assert.Equal(t, 2, nine.Count)
	assert.Equal(t, int64(13000+12000), nine.TotalCents)

	twenty := buckets[12]
	assert.Equal(t, 1, twenty.Count)
	assert.Equal(t, int64(4000), twenty.TotalCents)
}

func TestSalesPerHour_TimezoneShift(t *testing.T) {
	// 15:00 UTC is 10:00 local at UTC-5 (offset +300 minutes).
	agg := newTestAggregator(newSale("s1", utcMs(15, 0), li("arepa-1", 1)))

	buckets, err := agg.SalesPerHour(context.Background(), dayStart, dayEnd, 300)
	require.NoError(t, err)

	assert.Equal(t, 1, buckets[10-8].Count)
	assert.Equal(t, int64(13000), buckets[10-8].TotalCents)
	for i, b := range buckets {
		if i != 10-8 {
			assert.Zero(t, b.Count)
		}
	}
}

func TestSalesPerHour_DropsOutsideWindow(t *testing.T) {
	agg := newTestAggregator(
		newSale("early", utcMs(7, 59), li("cafe-1", 1)),
		newSale("late", utcMs(21, 0), li("cafe-1", 1)),
		newSale("open", utcMs(8, 0), li("cafe-1", 1)),
	)

	buckets, err := agg.SalesPerHour(context.Background(), dayStart, dayEnd, 0)
	require.NoError(t, err)

	var totalCount int
	for _, b := range buckets {
		totalCount += b.Count
	}
	assert.Equal(t, 1, totalCount)
	assert.Equal(t, 1, buckets[0].Count)
}

// --- ProductBreakdown ---

func TestProductBreakdown_SortsByUnitsDesc(t *testing.T) {
	agg := newTestAggregator(
		newSale("s1", utcMs(10, 0), li("arepa-1", 1), li("cafe-1", 3)),
		newSale("s2", utcMs(11, 0), li("cafe-1", 2), li("gas-1", 1)),
	)

	rows, err := agg.ProductBreakdown(context.Background(), dayStart, dayEnd)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "cafe-1", rows[0].ProductID)
	assert.Equal(t, "Capuchino", rows[0].Name)
	assert.Equal(t, 5, rows[0].Units)
	assert.Equal(t, int64(30000), rows[0].RevenueCents)

	// arepa-1 and gas-1 both sold 1 unit; arepa-1 was encountered first.
	assert.Equal(t, "arepa-1", rows[1].ProductID)
	assert.Equal(t, "gas-1", rows[2].ProductID)
}

func TestProductBreakdown_SkipsDanglingProduct(t *testing.T) {
	ghost := sale.LineItem{ProductID: "deleted", Quantity: 2, UnitPriceCents: 5000, SubtotalCents: 10000}
	agg := newTestAggregator(
		newSale("s1", utcMs(10, 0), li("arepa-1", 1), ghost),
	)

	rows, err := agg.ProductBreakdown(context.Background(), dayStart, dayEnd)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "arepa-1", rows[0].ProductID)
}

// --- CategoryIncome ---

func TestCategoryIncome_AlwaysFourRows(t *testing.T) {
	agg := newTestAggregator()

	rows, err := agg.CategoryIncome(context.Background(), dayStart, dayEnd)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, catalog.CategoryArepas, rows[0].Category)
	assert.Equal(t, catalog.CategoryJugos, rows[1].Category)
	assert.Equal(t, catalog.CategoryCafes, rows[2].Category)
	assert.Equal(t, catalog.CategoryGaseosas, rows[3].Category)
	for _, r := range rows {
		assert.Zero(t, r.RevenueCents)
	}
}

func TestCategoryIncome_SumsSubtotals(t *testing.T) {
	agg := newTestAggregator(
		newSale("s1", utcMs(10, 0), li("arepa-1", 2), li("jugo-1", 1)),
		newSale("s2", utcMs(12, 0), li("arepa-2", 1), li("gas-1", 3)),
	)

	rows, err := agg.CategoryIncome(context.Background(), dayStart, dayEnd)
	require.NoError(t, err)

	assert.Equal(t, int64(34000), rows[0].RevenueCents) // arepas
	assert.Equal(t, int64(7000), rows[1].RevenueCents)  // jugos
	assert.Equal(t, int64(0), rows[2].RevenueCents)     // cafes
	assert.Equal(t, int64(12000), rows[3].RevenueCents) // gaseosas
}

// --- ComboSales ---

func TestComboSales_Classification(t *testing.T) {
	agg := newTestAggregator(
		// Two arepas, no drink: not a combo.
		newSale("s1", utcMs(10, 0), li("arepa-1", 2)),
		// One arepa plus a coffee: combo.
		newSale("s2", utcMs(11, 0), li("arepa-2", 1), li("cafe-1", 1)),
		// Drinks only: not a combo.
		newSale("s3", utcMs(12, 0), li("jugo-1", 1), li("gas-1", 1)),
	)

	summary, err := agg.ComboSales(context.Background(), dayStart, dayEnd)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.SaleCount)
	assert.Equal(t, 1, summary.ComboCount)
	require.Len(t, summary.Combos, 1)
	assert.Equal(t, "s2", summary.Combos[0].SaleID)
	assert.Equal(t, int64(14000), summary.Combos[0].TotalCents)
	assert.InDelta(t, 33.3, summary.ComboRatePct, 0.001)
}

func TestComboSales_EmptyRange(t *testing.T) {
	agg := newTestAggregator()

	summary, err := agg.ComboSales(context.Background(), dayStart, dayEnd)
	require.NoError(t, err)

	assert.Zero(t, summary.SaleCount)
	assert.Zero(t, summary.ComboCount)
	assert.Zero(t, summary.ComboRatePct)
	assert.NotNil(t, summary.Combos)
	assert.Empty(t, summary.Combos)
}

// --- ComboPerHour ---

func TestComboPerHour_AccumulatesComboItemsOnly(t *testing.T) {
	agg := newTestAggregator(
		newSale("combo", utcMs(12, 10), li("arepa-1", 1), li("gas-1", 2)),
		newSale("plain", utcMs(12, 40), li("arepa-2", 5)),
	)

	buckets, err := agg.ComboPerHour(context.Background(), dayStart, dayEnd, 0)
	require.NoError(t, err)
	require.Len(t, buckets, 13)

	noon := buckets[12-8]
	assert.Equal(t, 2, noon.TotalSales)
	assert.Equal(t, 1, noon.ComboSales)
	assert.Equal(t, map[string]int{"La Patrona": 1, "Gaseosa 400ml": 2}, noon.ComboItems)

	for i, b := range buckets {
		if i != 12-8 {
			assert.Zero(t, b.TotalSales)
			assert.Empty(t, b.ComboItems)
		}
	}
}

// --- LastSale ---

func TestLastSale_NoneRecorded(t *testing.T) {
	agg := newTestAggregator()

	last, err := agg.LastSale(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestLastSale_HydratesProductNames(t *testing.T) {
	s1 := newSale("s1", utcMs(10, 0), li("arepa-1", 1))
	s2 := newSale("s2", utcMs(18, 0), li("arepa-2", 1), li("cafe-1", 2))
	s2.PromotionName = "Bebida gratis"
	agg := newTestAggregator(s1, s2)

	last, err := agg.LastSale(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last)

	assert.Equal(t, "s2", last.SaleID)
	assert.Equal(t, "Bebida gratis", last.PromotionName)
	require.Len(t, last.Items, 2)
	assert.Equal(t, "La Sencilla", last.Items[0].Name)
	assert.Equal(t, "Capuchino", last.Items[1].Name)
	assert.Equal(t, int64(12000), last.Items[1].SubtotalCents)
}

// --- Dashboard ---

func TestDashboard_BundlesAllReports(t *testing.T) {
	agg := newTestAggregator(
		newSale("s1", utcMs(9, 0), li("arepa-1", 1), li("jugo-1", 1)),
	)

	d, err := agg.Dashboard(context.Background(), dayStart, dayEnd, 0)
	require.NoError(t, err)

	require.Len(t, d.SalesPerHour, 13)
	assert.Equal(t, 1, d.SalesPerHour[1].Count)
	require.Len(t, d.ProductBreakdown, 2)
	require.Len(t, d.CategoryIncome, 4)
	assert.Equal(t, 1, d.ComboSales.ComboCount)
	require.Len(t, d.ComboPerHour, 13)
}
