package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/masarepas/arepa-pos/internal/domain/catalog"
	"github.com/masarepas/arepa-pos/internal/domain/sale"
)

// The reporting window covers local hours 8..20 inclusive; sales whose local
// hour falls outside it are counted in no bucket.
const (
	openingHour = 8
	closingHour = 20
	bucketCount = closingHour - openingHour + 1
)

var hundred = decimal.NewFromInt(100)

// Aggregator computes analytics over the sale log. It is read-only and works
// on whatever snapshot the repository returns; a sale committed concurrently
// with a report may or may not be included.
type Aggregator struct {
	sales    sale.Repository
	products catalog.Repository
	lg       *zap.Logger
}

// NewAggregator creates an Aggregator. A nil logger disables the
// data-integrity warnings.
func NewAggregator(sales sale.Repository, products catalog.Repository, lg *zap.Logger) *Aggregator {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Aggregator{sales: sales, products: products, lg: lg}
}

// localHour extracts the hour-of-day after shifting a UTC timestamp by the
// caller's offset: localMs = createdAt - tzOffsetMinutes*60000.
func localHour(createdAtMs int64, tzOffsetMinutes int) int {
	localMs := createdAtMs - int64(tzOffsetMinutes)*60_000
	return time.UnixMilli(localMs).UTC().Hour()
}

func hourLabel(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// SalesPerHour returns exactly 13 zero-filled buckets for local hours 8..20,
// ordered ascending by hour.
func (a *Aggregator) SalesPerHour(ctx context.Context, startMs, endMs int64, tzOffsetMinutes int) ([]HourBucket, error) {
	sales, err := a.sales.ListByCreatedAt(ctx, startMs, endMs)
	if err != nil {
		return nil, errors.Wrap(err, "list sales")
	}

	buckets := make([]HourBucket, bucketCount)
	for i := range buckets {
		h := openingHour + i
		buckets[i] = HourBucket{Hour: h, Label: hourLabel(h)}
	}

	for _, s := range sales {
		h := localHour(s.CreatedAt, tzOffsetMinutes)
		if h < openingHour || h > closingHour {
			continue
		}
		b := &buckets[h-openingHour]
		b.TotalCents += s.TotalCents
		b.Count++
	}
	return buckets, nil
}

// ProductBreakdown aggregates units and revenue per product across all line
// items of sales in range, sorted by units descending. Equal unit counts keep
// encounter order. Line items whose product can no longer be resolved
// contribute nothing and are logged as a data-integrity warning.
func (a *Aggregator) ProductBreakdown(ctx context.Context, startMs, endMs int64) ([]ProductRow, error) {
	sales, err := a.sales.ListByCreatedAt(ctx, startMs, endMs)
	if err != nil {
		return nil, errors.Wrap(err, "list sales")
	}

	index, err := a.productIndex(ctx, sales)
	if err != nil {
		return nil, err
	}

	rows := make(map[string]*ProductRow)
	order := make([]string, 0)
	for _, s := range sales {
		for _, li := range s.LineItems {
			p, ok := index[li.ProductID]
			if !ok {
				a.warnDangling(s.ID, li.ProductID)
				continue
			}
			row, ok := rows[li.ProductID]
			if !ok {
				row = &ProductRow{ProductID: li.ProductID, Name: p.Name}
				rows[li.ProductID] = row
				order = append(order, li.ProductID)
			}
			row.Units += li.Quantity
			row.RevenueCents += li.SubtotalCents
		}
	}

	out := make([]ProductRow, len(order))
	for i, id := range order {
		out[i] = *rows[id]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Units > out[j].Units })
	return out, nil
}

// CategoryIncome sums line-item subtotals per category. It always returns
// exactly four rows in canonical category order, zero-filled when a category
// had no sales.
func (a *Aggregator) CategoryIncome(ctx context.Context, startMs, endMs int64) ([]CategoryRow, error) {
	sales, err := a.sales.ListByCreatedAt(ctx, startMs, endMs)
	if err != nil {
		return nil, errors.Wrap(err, "list sales")
	}

	index, err := a.productIndex(ctx, sales)
	if err != nil {
		return nil, err
	}

	totals := make(map[catalog.Category]int64, len(catalog.Categories))
	for _, s := range sales {
		for _, li := range s.LineItems {
			p, ok := index[li.ProductID]
			if !ok {
				a.warnDangling(s.ID, li.ProductID)
				continue
			}
			totals[p.Category] += li.SubtotalCents
		}
	}

	rows := make([]CategoryRow, len(catalog.Categories))
	for i, c := range catalog.Categories {
		rows[i] = CategoryRow{Category: c, RevenueCents: totals[c]}
	}
	return rows, nil
}

// ComboSales classifies every sale in range and returns the combo summary.
func (a *Aggregator) ComboSales(ctx context.Context, startMs, endMs int64) (*ComboSummary, error) {
	sales, err := a.sales.ListByCreatedAt(ctx, startMs, endMs)
	if err != nil {
		return nil, errors.Wrap(err, "list sales")
	}

	index, err := a.productIndex(ctx, sales)
	if err != nil {
		return nil, err
	}

	summary := &ComboSummary{Combos: []ComboRef{}}
	for _, s := range sales {
		summary.SaleCount++
		if !a.isCombo(&s, index) {
			continue
		}
		summary.ComboCount++
		summary.Combos = append(summary.Combos, ComboRef{
			SaleID:     s.ID,
			CreatedAt:  s.CreatedAt,
			TotalCents: s.TotalCents,
		})
	}

	if summary.SaleCount > 0 {
		rate := decimal.NewFromInt(int64(summary.ComboCount)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(summary.SaleCount))).
			Round(1)
		summary.ComboRatePct = rate.InexactFloat64()
	}
	return summary, nil
}

// ComboPerHour buckets total and combo sales by local hour, with per-bucket
// item quantities accumulated from combo-qualifying sales only.
func (a *Aggregator) ComboPerHour(ctx context.Context, startMs, endMs int64, tzOffsetMinutes int) ([]ComboHourBucket, error) {
	sales, err := a.sales.ListByCreatedAt(ctx, startMs, endMs)
	if err != nil {
		return nil, errors.Wrap(err, "list sales")
	}

	index, err := a.productIndex(ctx, sales)
	if err != nil {
		return nil, err
	}

	buckets := make([]ComboHourBucket, bucketCount)
	for i := range buckets {
		h := openingHour + i
		buckets[i] = ComboHourBucket{
			Hour:       h,
			Label:      hourLabel(h),
			ComboItems: make(map[string]int),
		}
	}

	for _, s := range sales {
		h := localHour(s.CreatedAt, tzOffsetMinutes)
		if h < openingHour || h > closingHour {
			continue
		}
		b := &buckets[h-openingHour]
		b.TotalSales++
		if !a.isCombo(&s, index) {
			continue
		}
		b.ComboSales++
		for _, li := range s.LineItems {
			p, ok := index[li.ProductID]
			if !ok {
				continue
			}
			b.ComboItems[p.Name] += li.Quantity
		}
	}
	return buckets, nil
}

// LastSale returns the most recent sale hydrated with product names, or nil
// when no sale exists yet.
func (a *Aggregator) LastSale(ctx context.Context) (*LastSale, error) {
	s, err := a.sales.Latest(ctx)
	if err != nil {
		if errors.Is(err, sale.ErrNoSales) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "latest sale")
	}

	index, err := a.productIndex(ctx, []sale.Sale{*s})
	if err != nil {
		return nil, err
	}

	view := &LastSale{
		SaleID:        s.ID,
		CreatedAt:     s.CreatedAt,
		TotalCents:    s.TotalCents,
		PromotionName: s.PromotionName,
		Items:         []LastSaleItem{},
	}
	for _, li := range s.LineItems {
		p, ok := index[li.ProductID]
		if !ok {
			a.warnDangling(s.ID, li.ProductID)
			continue
		}
		view.Items = append(view.Items, LastSaleItem{
			Name:          p.Name,
			Quantity:      li.Quantity,
			SubtotalCents: li.SubtotalCents,
		})
	}
	return view, nil
}

// Dashboard runs every range report concurrently and bundles the results.
func (a *Aggregator) Dashboard(ctx context.Context, startMs, endMs int64, tzOffsetMinutes int) (*Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.SalesPerHour, err = a.SalesPerHour(ctx, startMs, endMs, tzOffsetMinutes)
		return err
	})
	g.Go(func() (err error) {
		d.ProductBreakdown, err = a.ProductBreakdown(ctx, startMs, endMs)
		return err
	})
	g.Go(func() (err error) {
		d.CategoryIncome, err = a.CategoryIncome(ctx, startMs, endMs)
		return err
	})
	g.Go(func() (err error) {
		d.ComboSales, err = a.ComboSales(ctx, startMs, endMs)
		return err
	})
	g.Go(func() (err error) {
		d.ComboPerHour, err = a.ComboPerHour(ctx, startMs, endMs, tzOffsetMinutes)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// isCombo reports whether a sale contains at least one arepa item and at
// least one drink item. Unresolvable products count toward neither side.
func (a *Aggregator) isCombo(s *sale.Sale, index map[string]catalog.Product) bool {
	var hasArepa, hasDrink bool
	for _, li := range s.LineItems {
		p, ok := index[li.ProductID]
		if !ok {
			continue
		}
		switch {
		case p.Category == catalog.CategoryArepas:
			hasArepa = true
		case p.Category.IsDrink():
			hasDrink = true
		}
	}
	return hasArepa && hasDrink
}

// productIndex batch-resolves every product referenced by the given sales.
// Products deleted since the sale was recorded are simply absent from the
// returned map.
func (a *Aggregator) productIndex(ctx context.Context, sales []sale.Sale) (map[string]catalog.Product, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, s := range sales {
		for _, li := range s.LineItems {
			if _, ok := seen[li.ProductID]; ok {
				continue
			}
			seen[li.ProductID] = struct{}{}
			ids = append(ids, li.ProductID)
		}
	}
	if len(ids) == 0 {
		return map[string]catalog.Product{}, nil
	}

	products, err := a.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	index := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	return index, nil
}

// warnDangling surfaces a line item whose product no longer resolves. The
// report stays available; the row is under-counted.
func (a *Aggregator) warnDangling(saleID, productID string) {
	a.lg.Warn("line item references unresolvable product",
		zap.String("sale_id", saleID),
		zap.String("product_id", productID),
	)
}
