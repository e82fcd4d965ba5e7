// Package report derives read-only analytics from the persisted sale log.
// Every report takes a half-open UTC range [startMs, endMs); the hourly
// reports additionally shift timestamps by a caller-supplied timezone offset
// before bucketing.
package report

import (
	"github.com/masarepas/arepa-pos/internal/domain/catalog"
)

// HourBucket is one aggregation slot of the hourly sales report.
type HourBucket struct {
	Hour       int
	Label      string
	TotalCents int64
	Count      int
}

// ProductRow aggregates units sold and revenue for one product.
type ProductRow struct {
	ProductID    string
	Name         string
	Units        int
	RevenueCents int64
}

// CategoryRow is the income total for one of the four fixed categories.
type CategoryRow struct {
	Category     catalog.Category
	RevenueCents int64
}

// ComboRef identifies one combo-qualifying sale.
type ComboRef struct {
	SaleID     string
	CreatedAt  int64
	TotalCents int64
}

// ComboSummary reports how many sales in range qualified as combos
// (at least one arepa plus at least one drink). ComboRatePct is rounded to
// one decimal and is zero, not NaN, for an empty range.
type ComboSummary struct {
	SaleCount    int
	ComboCount   int
	ComboRatePct float64
	Combos       []ComboRef
}

// ComboHourBucket is one slot of the per-hour combo report. ComboItems maps
// product name to the summed quantity across the combo-qualifying sales of
// the bucket; items of non-combo sales are not counted.
type ComboHourBucket struct {
	Hour       int
	Label      string
	TotalSales int
	ComboSales int
	ComboItems map[string]int
}

// LastSaleItem is a line item of the latest sale hydrated with its product
// name for display.
type LastSaleItem struct {
	Name          string
	Quantity      int
	SubtotalCents int64
}

// LastSale is the most recent sale in display form.
type LastSale struct {
	SaleID        string
	CreatedAt     int64
	TotalCents    int64
	PromotionName string
	Items         []LastSaleItem
}

// Dashboard bundles every range report for the dashboard view.
type Dashboard struct {
	SalesPerHour     []HourBucket
	ProductBreakdown []ProductRow
	CategoryIncome   []CategoryRow
	ComboSales       *ComboSummary
	ComboPerHour     []ComboHourBucket
}
