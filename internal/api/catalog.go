package api

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/masarepas/arepa-pos/internal/domain/catalog"
)

// handleListProducts returns the active menu grouped by category, in the
// canonical category order.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.ListActive(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("List products", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	byCategory := make(map[catalog.Category][]catalog.Product, len(catalog.Categories))
	for _, p := range products {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			for _, cat := range catalog.Categories {
				group := byCategory[cat]
				e.Field(string(cat), func(e *jx.Encoder) {
					e.Arr(func(e *jx.Encoder) {
						for _, p := range group {
							e.Obj(func(e *jx.Encoder) {
								e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
								e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
								e.Field("priceCents", func(e *jx.Encoder) { e.Int64(p.PriceCents) })
							})
						}
					})
				})
			}
		})
	})
}

// handleListPromotions returns the active promotions.
func (s *Server) handleListPromotions(w http.ResponseWriter, r *http.Request) {
	promos, err := s.promotions.ListActive(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("List promotions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, p := range promos {
				e.Obj(func(e *jx.Encoder) {
					e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
					e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
					e.Field("type", func(e *jx.Encoder) { e.Str(string(p.Type)) })
					if p.DiscountPercent > 0 {
						e.Field("discountPercent", func(e *jx.Encoder) { e.Int(p.DiscountPercent) })
					}
				})
			}
		})
	})
}
