package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/loomery-io/loomery-backend/api/responses"
	"github.com/loomery-io/loomery-backend/api/validators"
	"github.com/loomery-io/loomery-backend/internal/designs"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
	"github.com/loomery-io/loomery-backend/pkg/logger"
	"github.com/loomery-io/loomery-backend/pkg/pagination"
)

type createDesignPayload struct {
	SKU         string  `json:"sku" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
	Price       string  `json:"price" validate:"required"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
}

// CreateDesign adds a catalogue entry. Admin only.
func CreateDesign(svc designs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "design service unavailable"))
			return
		}

		var payload createDesignPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		price, err := decimal.NewFromString(payload.Price)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal"))
			return
		}

		design, err := svc.Create(ctx, designs.CreateDesignInput{
			SKU:         payload.SKU,
			Name:        payload.Name,
			Category:    payload.Category,
			Description: payload.Description,
			Price:       price,
			ImageURL:    payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, design)
	}
}

// GetDesign returns one catalogue entry.
func GetDesign(svc designs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "design service unavailable"))
			return
		}

		designID, err := validators.ParseURLUUID(r, "designId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		design, err := svc.GetByID(ctx, designID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, design)
	}
}

type updateDesignPayload struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Active      *bool   `json:"active"`
}

// UpdateDesign edits a catalogue entry. Admin only.
func UpdateDesign(svc designs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "design service unavailable"))
			return
		}

		designID, err := validators.ParseURLUUID(r, "designId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateDesignPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := designs.UpdateDesignInput{
			Name:        payload.Name,
			Category:    payload.Category,
			Description: payload.Description,
			ImageURL:    payload.ImageURL,
			Active:      payload.Active,
		}
		if payload.Price != nil {
			price, err := decimal.NewFromString(*payload.Price)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal"))
				return
			}
			input.Price = &price
		}

		design, err := svc.Update(ctx, designID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, design)
	}
}

// ListDesigns returns one page of the active catalogue.
func ListDesigns(svc designs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "design service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.List(ctx, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
