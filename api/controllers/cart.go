package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/loomery-io/loomery-backend/api/responses"
	"github.com/loomery-io/loomery-backend/api/validators"
	"github.com/loomery-io/loomery-backend/internal/parties"
	"github.com/loomery-io/loomery-backend/internal/tiers"
	"github.com/loomery-io/loomery-backend/pkg/enums"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
	"github.com/loomery-io/loomery-backend/pkg/logger"
)

type quoteItemPayload struct {
	Price    string `json:"price" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type quotePayload struct {
	PricingModel string             `json:"pricing_model" validate:"omitempty,oneof=volume relationship hybrid"`
	Items        []quoteItemPayload `json:"items" validate:"required,min=1,dive"`
}

type quoteResult struct {
	DiscountPercentage string `json:"discount_percentage"`
	Subtotal           string `json:"subtotal"`
	DiscountAmount     string `json:"discount_amount"`
	Total              string `json:"total"`
	ItemCount          int    `json:"item_count"`
	TotalQuantity      int    `json:"total_quantity"`
}

// CartQuote previews the totals a cart would checkout at, without
// persisting anything.
func CartQuote(svc parties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "party service unavailable"))
			return
		}

		partyID, err := actingPartyID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload quotePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items := make([]tiers.LineItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			price, err := decimal.NewFromString(item.Price)
			if err != nil || price.IsNegative() {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative decimal"))
				return
			}
			items = append(items, tiers.LineItemInput{Price: price, Quantity: item.Quantity})
		}

		model := enums.ParsePricingModel(payload.PricingModel)
		discount, err := svc.GetDiscount(ctx, partyID, model)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		pct, err := decimal.NewFromString(discount.DiscountPercentage)
		if err != nil {
			pct = decimal.Zero
		}

		totals := tiers.ComputeOrderTotals(items, pct)
		responses.WriteSuccess(w, quoteResult{
			DiscountPercentage: pct.String(),
			Subtotal:           totals.Subtotal.String(),
			DiscountAmount:     totals.DiscountAmount.String(),
			Total:              totals.Total.String(),
			ItemCount:          totals.ItemCount,
			TotalQuantity:      totals.TotalQuantity,
		})
	}
}
