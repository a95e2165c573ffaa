package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/loomery-io/loomery-backend/api/responses"
	"github.com/loomery-io/loomery-backend/api/validators"
	"github.com/loomery-io/loomery-backend/internal/checkout"
	"github.com/loomery-io/loomery-backend/pkg/enums"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
	"github.com/loomery-io/loomery-backend/pkg/logger"
)

type checkoutItemPayload struct {
	DesignID string `json:"design_id" validate:"required,uuid4"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type checkoutPayload struct {
	PricingModel string                `json:"pricing_model" validate:"omitempty,oneof=volume relationship hybrid"`
	Items        []checkoutItemPayload `json:"items" validate:"required,min=1,dive"`
	Notes        *string               `json:"notes"`
}

// Checkout places an order for the acting party.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		partyID, err := actingPartyID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items := make([]checkout.CheckoutItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			designID, err := uuid.Parse(item.DesignID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid design id"))
				return
			}
			items = append(items, checkout.CheckoutItem{DesignID: designID, Quantity: item.Quantity})
		}

		order, err := svc.Checkout(ctx, checkout.CheckoutInput{
			PartyID:      partyID,
			PricingModel: enums.ParsePricingModel(payload.PricingModel),
			Items:        items,
			Notes:        payload.Notes,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
