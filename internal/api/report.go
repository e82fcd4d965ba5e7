package api

import (
	"net/http"
	"sort"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/masarepas/arepa-pos/internal/domain/report"
)

func (s *Server) handleSalesPerHour(w http.ResponseWriter, r *http.Request) {
	p, err := parseRangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	buckets, err := s.reports.SalesPerHour(r.Context(), p.StartMs, p.EndMs, p.TzOffsetMinutes)
	if err != nil {
		s.reportError(w, r, "Sales per hour", err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeHourBuckets(e, buckets)
	})
}

func (s *Server) handleProductBreakdown(w http.ResponseWriter, r *http.Request) {
	p, err := parseRangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := s.reports.ProductBreakdown(r.Context(), p.StartMs, p.EndMs)
	if err != nil {
		s.reportError(w, r, "Product breakdown", err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProductRows(e, rows)
	})
}

func (s *Server) handleCategoryIncome(w http.ResponseWriter, r *http.Request) {
	p, err := parseRangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := s.reports.CategoryIncome(r.Context(), p.StartMs, p.EndMs)
	if err != nil {
		s.reportError(w, r, "Category income", err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCategoryRows(e, rows)
	})
}

func (s *Server) handleComboSales(w http.ResponseWriter, r *http.Request) {
	p, err := parseRangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.reports.ComboSales(r.Context(), p.StartMs, p.EndMs)
	if err != nil {
		s.reportError(w, r, "Combo sales", err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeComboSummary(e, summary)
	})
}

func (s *Server) handleComboPerHour(w http.ResponseWriter, r *http.Request) {
	p, err := parseRangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	buckets, err := s.reports.ComboPerHour(r.Context(), p.StartMs, p.EndMs, p.TzOffsetMinutes)
	if err != nil {
		s.reportError(w, r, "Combo per hour", err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeComboHourBuckets(e, buckets)
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p, err := parseRangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := s.reports.Dashboard(r.Context(), p.StartMs, p.EndMs, p.TzOffsetMinutes)
	if err != nil {
		s.reportError(w, r, "Dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("salesPerHour", func(e *jx.Encoder) { encodeHourBuckets(e, d.SalesPerHour) })
			e.Field("productBreakdown", func(e *jx.Encoder) { encodeProductRows(e, d.ProductBreakdown) })
			e.Field("categoryIncome", func(e *jx.Encoder) { encodeCategoryRows(e, d.CategoryIncome) })
			e.Field("comboSales", func(e *jx.Encoder) { encodeComboSummary(e, d.ComboSales) })
			e.Field("comboPerHour", func(e *jx.Encoder) { encodeComboHourBuckets(e, d.ComboPerHour) })
		})
	})
}

func (s *Server) reportError(w http.ResponseWriter, r *http.Request, op string, err error) {
	zctx.From(r.Context()).Error(op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func encodeHourBuckets(e *jx.Encoder, buckets []report.HourBucket) {
	e.Arr(func(e *jx.Encoder) {
		for _, b := range buckets {
			e.Obj(func(e *jx.Encoder) {
				e.Field("hour", func(e *jx.Encoder) { e.Int(b.Hour) })
				e.Field("label", func(e *jx.Encoder) { e.Str(b.Label) })
				e.Field("totalCents", func(e *jx.Encoder) { e.Int64(b.TotalCents) })
				e.Field("count", func(e *jx.Encoder) { e.Int(b.Count) })
			})
		}
	})
}

func encodeProductRows(e *jx.Encoder, rows []report.ProductRow) {
	e.Arr(func(e *jx.Encoder) {
		for _, row := range rows {
			e.Obj(func(e *jx.Encoder) {
				e.Field("productId", func(e *jx.Encoder) { e.Str(row.ProductID) })
				e.Field("name", func(e *jx.Encoder) { e.Str(row.Name) })
				e.Field("units", func(e *jx.Encoder) { e.Int(row.Units) })
				e.Field("revenueCents", func(e *jx.Encoder) { e.Int64(row.RevenueCents) })
			})
		}
	})
}

func encodeCategoryRows(e *jx.Encoder, rows []report.CategoryRow) {
	e.Arr(func(e *jx.Encoder) {
		for _, row := range rows {
			e.Obj(func(e *jx.Encoder) {
				e.Field("category", func(e *jx.Encoder) { e.Str(string(row.Category)) })
				e.Field("revenueCents", func(e *jx.Encoder) { e.Int64(row.RevenueCents) })
			})
		}
	})
}

func encodeComboSummary(e *jx.Encoder, summary *report.ComboSummary) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("saleCount", func(e *jx.Encoder) { e.Int(summary.SaleCount) })
		e.Field("comboCount", func(e *jx.Encoder) { e.Int(summary.ComboCount) })
		e.Field("comboRatePct", func(e *jx.Encoder) { e.Float64(summary.ComboRatePct) })
		e.Field("combos", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, c := range summary.Combos {
					e.Obj(func(e *jx.Encoder) {
						e.Field("saleId", func(e *jx.Encoder) { e.Str(c.SaleID) })
						e.Field("createdAt", func(e *jx.Encoder) { e.Int64(c.CreatedAt) })
						e.Field("totalCents", func(e *jx.Encoder) { e.Int64(c.TotalCents) })
					})
				}
			})
		})
	})
}

func encodeComboHourBuckets(e *jx.Encoder, buckets []report.ComboHourBucket) {
	e.Arr(func(e *jx.Encoder) {
		for _, b := range buckets {
			e.Obj(func(e *jx.Encoder) {
				e.Field("hour", func(e *jx.Encoder) { e.Int(b.Hour) })
				e.Field("label", func(e *jx.Encoder) { e.Str(b.Label) })
				e.Field("totalSales", func(e *jx.Encoder) { e.Int(b.TotalSales) })
				e.Field("comboSales", func(e *jx.Encoder) { e.Int(b.ComboSales) })
				e.Field("comboItems", func(e *jx.Encoder) {
					// Sorted for a stable wire form.
					names := make([]string, 0, len(b.ComboItems))
					for name := range b.ComboItems {
						names = append(names, name)
					}
					sort.Strings(names)

					e.Obj(func(e *jx.Encoder) {
						for _, name := range names {
							qty := b.ComboItems[name]
							e.Field(name, func(e *jx.Encoder) { e.Int(qty) })
						}
					})
				})
			})
		}
	})
}
