package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/loomery-io/loomery-backend/api/middleware"
	"github.com/loomery-io/loomery-backend/api/responses"
	"github.com/loomery-io/loomery-backend/api/validators"
	"github.com/loomery-io/loomery-backend/internal/parties"
	"github.com/loomery-io/loomery-backend/internal/tiers"
	"github.com/loomery-io/loomery-backend/pkg/cache"
	"github.com/loomery-io/loomery-backend/pkg/enums"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
	"github.com/loomery-io/loomery-backend/pkg/logger"
)

// UpdatePartyTier recomputes one party's tier on demand. Unlike checkout's
// background refresh, failures here surface to the admin caller.
func UpdatePartyTier(maintainer tiers.Maintainer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if maintainer == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tier maintainer unavailable"))
			return
		}

		partyID, err := validators.ParseURLUUID(r, "partyId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := maintainer.RecomputeParty(ctx, partyID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type batchUpdateResult struct {
	UpdatedCount int `json:"updated_count"`
	FailedCount  int `json:"failed_count"`
}

// BatchUpdateTiers recomputes every active party.
func BatchUpdateTiers(maintainer tiers.Maintainer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if maintainer == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tier maintainer unavailable"))
			return
		}

		result, err := maintainer.BatchRecompute(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, batchUpdateResult{
			UpdatedCount: result.Updated,
			FailedCount:  result.Failed,
		})
	}
}

// PartyDiscount reports the discount a party currently gets under the
// requested pricing model. Reads only stored tier state; no recompute.
func PartyDiscount(svc parties.Service, discountCache *cache.Cache, ttl time.Duration, logg *logger.Logger) http.HandlerFunc {
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

		model := enums.ParsePricingModel(strings.TrimSpace(r.URL.Query().Get("active_model")))

		if discountCache != nil && ttl > 0 {
			var dto parties.DiscountDTO
			key := "tiers:discount:" + partyID.String() + ":" + string(model)
			err := discountCache.GetOrSet(ctx, key, ttl, &dto, func(ctx context.Context) (any, error) {
				return svc.GetDiscount(ctx, partyID, model)
			})
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, &dto)
			return
		}

		dto, err := svc.GetDiscount(ctx, partyID, model)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// actorCanAccessParty allows admins everywhere and retailers only within
// their own party.
func actorCanAccessParty(ctx context.Context, partyID string) bool {
	if middleware.RoleFromContext(ctx) == string(enums.MemberRoleAdmin) {
		return true
	}
	return middleware.PartyIDFromContext(ctx) == partyID
}
