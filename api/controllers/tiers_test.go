package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/loomery-io/loomery-backend/api/middleware"
	"github.com/loomery-io/loomery-backend/internal/parties"
	"github.com/loomery-io/loomery-backend/internal/tiers"
	"github.com/loomery-io/loomery-backend/pkg/enums"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
)

type stubMaintainer struct {
	result      *tiers.RecomputeResult
	batchResult *tiers.BatchResult
	err         error
	gotPartyID  uuid.UUID
}

func (s *stubMaintainer) RecomputeParty(ctx context.Context, partyID uuid.UUID) (*tiers.RecomputeResult, error) {
	s.gotPartyID = partyID
	return s.result, s.err
}

func (s *stubMaintainer) BatchRecompute(ctx context.Context) (*tiers.BatchResult, error) {
	return s.batchResult, s.err
}

type stubPartyService struct {
	discount *parties.DiscountDTO
	err      error
	calls    int
	gotModel enums.PricingModel
}

func (s *stubPartyService) Create(ctx context.Context, input parties.CreatePartyInput) (*parties.PartyDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubPartyService) GetByID(ctx context.Context, id uuid.UUID) (*parties.PartyDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubPartyService) GetDiscount(ctx context.Context, partyID uuid.UUID, model enums.PricingModel) (*parties.DiscountDTO, error) {
	s.calls++
	s.gotModel = model
	return s.discount, s.err
}

func (s *stubPartyService) UpdateTierAssignments(ctx context.Context, partyID uuid.UUID, input parties.TierAssignmentInput) (*parties.PartyDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func requestWithURLParam(method, target, key, value string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestUpdatePartyTierSuccess(t *testing.T) {
	t.Parallel()

	partyID := uuid.New()
	maintainer := &stubMaintainer{result: &tiers.RecomputeResult{
		PartyID:            partyID,
		MonthlyOrderCount:  30,
		TierID:             "silver",
		TierName:           "Silver",
		DiscountPercentage: "10",
	}}
	handler := UpdatePartyTier(maintainer, nil)

	req := requestWithURLParam(http.MethodPost, "/api/admin/v1/tiers/update-party/"+partyID.String(), "partyId", partyID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if maintainer.gotPartyID != partyID {
		t.Fatalf("expected recompute for %s got %s", partyID, maintainer.gotPartyID)
	}

	var envelope struct {
		Data tiers.RecomputeResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TierID != "silver" || envelope.Data.MonthlyOrderCount != 30 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestUpdatePartyTierInvalidID(t *testing.T) {
	t.Parallel()

	handler := UpdatePartyTier(&stubMaintainer{}, nil)
	req := requestWithURLParam(http.MethodPost, "/api/admin/v1/tiers/update-party/nope", "partyId", "nope")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdatePartyTierNotFound(t *testing.T) {
	t.Parallel()

	maintainer := &stubMaintainer{err: pkgerrors.New(pkgerrors.CodeNotFound, "party not found")}
	handler := UpdatePartyTier(maintainer, nil)

	partyID := uuid.NewString()
	req := requestWithURLParam(http.MethodPost, "/api/admin/v1/tiers/update-party/"+partyID, "partyId", partyID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestBatchUpdateTiersReportsCounts(t *testing.T) {
	t.Parallel()

	maintainer := &stubMaintainer{batchResult: &tiers.BatchResult{Processed: 5, Updated: 4, Failed: 1}}
	handler := BatchUpdateTiers(maintainer, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/tiers/batch-update", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data batchUpdateResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.UpdatedCount != 4 || envelope.Data.FailedCount != 1 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestPartyDiscountOwnParty(t *testing.T) {
	t.Parallel()

	partyID := uuid.New()
	tierID := "gold"
	relationshipTierID := "preferred"
	updatedAt := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	svc := &stubPartyService{discount: &parties.DiscountDTO{
		PartyID:            partyID,
		PricingModel:       enums.PricingModelVolume,
		DiscountPercentage: "15",
		TierID:             &tierID,

		VolumeTierID:       &tierID,
		RelationshipTierID: &relationshipTierID,
		MonthlyOrderCount:  60,
		TierLastUpdated:    &updatedAt,
	}}
	handler := PartyDiscount(svc, nil, 0, nil)

	req := requestWithURLParam(http.MethodGet, "/api/v1/parties/"+partyID.String()+"/discount?active_model=volume", "partyId", partyID.String())
	ctx := middleware.WithRole(req.Context(), string(enums.MemberRoleRetailer))
	ctx = middleware.WithPartyID(ctx, partyID.String())
	req = req.WithContext(ctx)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotModel != enums.PricingModelVolume {
		t.Fatalf("expected volume model got %q", svc.gotModel)
	}

	var envelope struct {
		Data parties.DiscountDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.DiscountPercentage != "15" {
		t.Fatalf("unexpected discount %q", envelope.Data.DiscountPercentage)
	}
	if envelope.Data.VolumeTierID == nil || *envelope.Data.VolumeTierID != "gold" {
		t.Fatalf("expected stored volume tier in response, got %+v", envelope.Data)
	}
	if envelope.Data.RelationshipTierID == nil || *envelope.Data.RelationshipTierID != "preferred" {
		t.Fatalf("expected stored relationship tier in response, got %+v", envelope.Data)
	}
	if envelope.Data.MonthlyOrderCount != 60 {
		t.Fatalf("expected monthly order count 60 got %d", envelope.Data.MonthlyOrderCount)
	}
	if envelope.Data.TierLastUpdated == nil || !envelope.Data.TierLastUpdated.Equal(updatedAt) {
		t.Fatalf("expected tier_last_updated in response, got %+v", envelope.Data.TierLastUpdated)
	}
}

func TestPartyDiscountForeignPartyForbidden(t *testing.T) {
	t.Parallel()

	svc := &stubPartyService{discount: &parties.DiscountDTO{DiscountPercentage: "15"}}
	handler := PartyDiscount(svc, nil, 0, nil)

	targetID := uuid.NewString()
	req := requestWithURLParam(http.MethodGet, "/api/v1/parties/"+targetID+"/discount", "partyId", targetID)
	ctx := middleware.WithRole(req.Context(), string(enums.MemberRoleRetailer))
	ctx = middleware.WithPartyID(ctx, uuid.NewString())
	req = req.WithContext(ctx)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("expected no service call, got %d", svc.calls)
	}
}

func TestPartyDiscountAdminCrossParty(t *testing.T) {
	t.Parallel()

	svc := &stubPartyService{discount: &parties.DiscountDTO{DiscountPercentage: "7"}}
	handler := PartyDiscount(svc, nil, 0, nil)

	targetID := uuid.NewString()
	req := requestWithURLParam(http.MethodGet, "/api/v1/parties/"+targetID+"/discount?active_model=relationship", "partyId", targetID)
	ctx := middleware.WithRole(req.Context(), string(enums.MemberRoleAdmin))
	ctx = middleware.WithPartyID(ctx, uuid.NewString())
	req = req.WithContext(ctx)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotModel != enums.PricingModelRelationship {
		t.Fatalf("expected relationship model got %q", svc.gotModel)
	}
}
