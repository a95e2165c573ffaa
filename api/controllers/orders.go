package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/loomery-io/loomery-backend/api/middleware"
	"github.com/loomery-io/loomery-backend/api/responses"
	"github.com/loomery-io/loomery-backend/api/validators"
	"github.com/loomery-io/loomery-backend/internal/orders"
	"github.com/loomery-io/loomery-backend/pkg/enums"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
	"github.com/loomery-io/loomery-backend/pkg/logger"
	"github.com/loomery-io/loomery-backend/pkg/pagination"
)

type orderListResult struct {
	Orders     []orders.OrderDTO `json:"orders"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// ListOrders returns the acting party's order history, newest first.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		partyID, err := actingPartyID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, next, err := svc.ListByParty(ctx, partyID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderListResult{Orders: rows, NextCursor: next})
	}
}

// GetOrder returns one order with its line items. Retailers only see
// orders placed by their own party; admins see any order.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParseURLUUID(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		scope := uuid.Nil
		if middleware.RoleFromContext(ctx) != string(enums.MemberRoleAdmin) {
			scope, err = actingPartyID(ctx)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		order, err := svc.GetByID(ctx, scope, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// actingPartyID reads the caller's party from the token context.
func actingPartyID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.PartyIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "party context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid party id")
	}
	return id, nil
}
