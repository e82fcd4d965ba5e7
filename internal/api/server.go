// Package api implements the HTTP surface of the point of sale service:
// sale creation, catalog listing, and the analytics reports.
package api

import (
	"net/http"

	"github.com/masarepas/arepa-pos/internal/domain/catalog"
	"github.com/masarepas/arepa-pos/internal/domain/promotion"
	"github.com/masarepas/arepa-pos/internal/domain/report"
	"github.com/masarepas/arepa-pos/internal/domain/sale"
)

// Server holds the handlers for all API routes.
type Server struct {
	sales      *sale.Service
	reports    *report.Aggregator
	products   catalog.Repository
	promotions promotion.Repository
}

// NewServer creates a Server backed by the given services and repositories.
func NewServer(
	sales *sale.Service,
	reports *report.Aggregator,
	products catalog.Repository,
	promotions promotion.Repository,
) *Server {
	return &Server{
		sales:      sales,
		reports:    reports,
		products:   products,
		promotions: promotions,
	}
}

// Register mounts all API routes on the given mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sales", s.handleCreateSale)
	mux.HandleFunc("GET /api/sales/last", s.handleLastSale)
	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("GET /api/promotions", s.handleListPromotions)
	mux.HandleFunc("GET /api/reports/sales-per-hour", s.handleSalesPerHour)
	mux.HandleFunc("GET /api/reports/product-breakdown", s.handleProductBreakdown)
	mux.HandleFunc("GET /api/reports/category-income", s.handleCategoryIncome)
	mux.HandleFunc("GET /api/reports/combo-sales", s.handleComboSales)
	mux.HandleFunc("GET /api/reports/combo-per-hour", s.handleComboPerHour)
	mux.HandleFunc("GET /api/reports/dashboard", s.handleDashboard)
}
