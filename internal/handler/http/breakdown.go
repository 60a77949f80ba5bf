package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/affiway/backoffice/internal/models"
	"github.com/affiway/backoffice/internal/money"
	"github.com/go-chi/chi/v5"
)

// BreakdownService computes an order's financial decomposition
type BreakdownService interface {
	Breakdown(ctx context.Context, orderID string) (money.Breakdown, error)
}

// BreakdownHandler represents HTTP handler for order breakdown requests
type BreakdownHandler struct {
	svc BreakdownService
}

// NewBreakdownHandler creates new BreakdownHandler instance
func NewBreakdownHandler(svc BreakdownService) *BreakdownHandler {
	return &BreakdownHandler{svc: svc}
}

// BreakdownResp is the wire representation of an order's financials
type BreakdownResp struct {
	GrossSale           string `json:"gross_sale"`
	AffiliateCommission string `json:"affiliate_commission"`
	LogisticsCost       string `json:"logistics_cost"`
	ShippingCost        string `json:"shipping_cost"`
	CareCommission      string `json:"care_commission"`
	CostOfGoods         string `json:"cost_of_goods"`
	NetProfit           string `json:"net_profit"`
}

// GetBreakdown returns the cost and profit decomposition of an order
func (bh *BreakdownHandler) GetBreakdown() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := bh.svc.Breakdown(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			switch {
			case errors.Is(err, models.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrUnknownProduct):
				http.Error(w, "unknown product", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, BreakdownResp{
			GrossSale:           b.GrossSale.StringFixed(2),
			AffiliateCommission: b.AffiliateCommission.StringFixed(2),
			LogisticsCost:       b.LogisticsCost.StringFixed(2),
			ShippingCost:        b.ShippingCost.StringFixed(2),
			CareCommission:      b.CareCommission.StringFixed(2),
			CostOfGoods:         b.CostOfGoods.StringFixed(2),
			NetProfit:           b.NetProfit.StringFixed(2),
		})
	}
}
