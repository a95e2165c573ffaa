package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/loomery-io/loomery-backend/api/middleware"
	"github.com/loomery-io/loomery-backend/api/responses"
	"github.com/loomery-io/loomery-backend/api/validators"
	"github.com/loomery-io/loomery-backend/internal/parties"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
	"github.com/loomery-io/loomery-backend/pkg/logger"
)

type createPartyPayload struct {
	Name    string  `json:"name" validate:"required"`
	GSTIN   *string `json:"gstin"`
	City    *string `json:"city"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	OwnerID string  `json:"owner_id" validate:"required,uuid4"`
}

// CreateParty registers a new party. Admin only.
func CreateParty(svc parties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "party service unavailable"))
			return
		}

		var payload createPartyPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		ownerID, err := uuid.Parse(payload.OwnerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid owner id"))
			return
		}

		party, err := svc.Create(ctx, parties.CreatePartyInput{
			Name:    payload.Name,
			GSTIN:   payload.GSTIN,
			City:    payload.City,
			Phone:   payload.Phone,
			Email:   payload.Email,
			OwnerID: ownerID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, party)
	}
}

// GetParty returns one party profile, including its current tier state.
func GetParty(svc parties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "party service unavailable"))
			return
		}

		partyID, err := validators.ParseURLUUID(r, "partyId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if !actorCanAccessParty(ctx, partyID.String()) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "party access denied"))
			return
		}

		party, err := svc.GetByID(ctx, partyID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, party)
	}
}

type tierAssignmentPayload struct {
	RelationshipTierID   *string `json:"relationship_tier_id"`
	HybridManualOverride *bool   `json:"hybrid_manual_override"`
	HybridOverrideTierID *string `json:"hybrid_override_tier_id"`
	Active               *bool   `json:"active"`
}

// UpdatePartyTierAssignments edits the manually managed tier fields.
// Admin only; the monthly refresh owns the automatic fields.
func UpdatePartyTierAssignments(svc parties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "party service unavailable"))
			return
		}

		partyID, err := validators.ParseURLUUID(r, "partyId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload tierAssignmentPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		party, err := svc.UpdateTierAssignments(ctx, partyID, parties.TierAssignmentInput{
			RelationshipTierID:   payload.RelationshipTierID,
			HybridManualOverride: payload.HybridManualOverride,
			HybridOverrideTierID: payload.HybridOverrideTierID,
			Active:               payload.Active,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ctx = logg.WithFields(ctx, map[string]any{
			"party_id": partyID.String(),
			"actor_id": middleware.UserIDFromContext(ctx),
		})
		logg.Info(ctx, "party tier assignments updated")
		responses.WriteSuccess(w, party)
	}
}
