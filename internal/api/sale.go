package api

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/masarepas/arepa-pos/internal/domain/report"
	"github.com/masarepas/arepa-pos/internal/domain/sale"
)

// handleCreateSale decodes the cart request, delegates to the sale service,
// and maps domain errors to HTTP statuses.
func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read request body")
		return
	}

	req, err := decodeCreateSaleRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	result, err := s.sales.CreateSale(r.Context(), req)
	if err != nil {
		status, message := mapSaleError(err)
		if status == http.StatusInternalServerError {
			zctx.From(r.Context()).Error("Create sale", zap.Error(err))
		}
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("saleId", func(e *jx.Encoder) { e.Str(result.SaleID) })
			e.Field("totalCents", func(e *jx.Encoder) { e.Int64(result.TotalCents) })
			if result.PromotionName != "" {
				e.Field("promotionName", func(e *jx.Encoder) { e.Str(result.PromotionName) })
			}
		})
	})
}

// handleLastSale returns the most recent sale hydrated with product names,
// or a JSON null when nothing has been sold yet.
func (s *Server) handleLastSale(w http.ResponseWriter, r *http.Request) {
	last, err := s.reports.LastSale(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("Last sale", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeLastSale(e, last)
	})
}

func decodeCreateSaleRequest(body []byte) (sale.CreateSaleRequest, error) {
	var req sale.CreateSaleRequest

	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "anonymous":
			v, err := d.Bool()
			if err != nil {
				return errors.Wrap(err, "anonymous")
			}
			req.Anonymous = v
		case "userPhone":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "userPhone")
			}
			req.UserPhone = v
		case "promotionId":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "promotionId")
			}
			req.PromotionID = v
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				var item sale.CartItem
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					switch key {
					case "productId":
						v, err := d.Str()
						if err != nil {
							return errors.Wrap(err, "productId")
						}
						item.ProductID = v
					case "quantity":
						v, err := d.Int()
						if err != nil {
							return errors.Wrap(err, "quantity")
						}
						item.Quantity = v
					default:
						return d.Skip()
					}
					return nil
				}); err != nil {
					return err
				}
				req.Items = append(req.Items, item)
				return nil
			})
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return sale.CreateSaleRequest{}, errors.Wrap(err, "decode sale request")
	}

	return req, nil
}

// mapSaleError converts domain errors to an HTTP status and client message.
func mapSaleError(err error) (int, string) {
	switch {
	case errors.Is(err, sale.ErrEmptyCart),
		errors.Is(err, sale.ErrMissingContact):
		return http.StatusBadRequest, err.Error()
	}

	var ipErr *sale.InvalidProductError
	if errors.As(err, &ipErr) {
		return http.StatusUnprocessableEntity, ipErr.Error()
	}

	var iqErr *sale.InvalidQuantityError
	if errors.As(err, &iqErr) {
		return http.StatusUnprocessableEntity, iqErr.Error()
	}

	return http.StatusInternalServerError, "internal error"
}

func encodeLastSale(e *jx.Encoder, last *report.LastSale) {
	if last == nil {
		e.Null()
		return
	}

	e.Obj(func(e *jx.Encoder) {
		e.Field("saleId", func(e *jx.Encoder) { e.Str(last.SaleID) })
		e.Field("createdAt", func(e *jx.Encoder) { e.Int64(last.CreatedAt) })
		e.Field("totalCents", func(e *jx.Encoder) { e.Int64(last.TotalCents) })
		if last.PromotionName != "" {
			e.Field("promotionName", func(e *jx.Encoder) { e.Str(last.PromotionName) })
		}
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range last.Items {
					e.Obj(func(e *jx.Encoder) {
						e.Field("name", func(e *jx.Encoder) { e.Str(item.Name) })
						e.Field("quantity", func(e *jx.Encoder) { e.Int(item.Quantity) })
						e.Field("subtotalCents", func(e *jx.Encoder) { e.Int64(item.SubtotalCents) })
					})
				}
			})
		})
	})
}
