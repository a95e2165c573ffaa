package tiers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
	"github.com/loomery-io/loomery-backend/pkg/logger"
	"github.com/loomery-io/loomery-backend/pkg/metrics"
)

// TierState is the derived tier data written back to a party after a
// recompute. Recomputation overwrites unconditionally so re-running it is
// safe.
type TierState struct {
	VolumeTierID      string
	HybridAutoTierID  string
	MonthlyOrderCount int
	UpdatedAt         time.Time
}

type partyStore interface {
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	UpdateTierState(ctx context.Context, partyID uuid.UUID, state TierState) error
}

type orderCounter interface {
	CountForPartyBetween(ctx context.Context, partyID uuid.UUID, from time.Time, to time.Time) (int64, error)
}

// Maintainer recomputes party volume tiers from current-month order counts.
type Maintainer interface {
	RecomputeParty(ctx context.Context, partyID uuid.UUID) (*RecomputeResult, error)
	BatchRecompute(ctx context.Context) (*BatchResult, error)
}

// RecomputeResult describes the tier assigned to one party.
type RecomputeResult struct {
	PartyID            uuid.UUID `json:"party_id"`
	MonthlyOrderCount  int       `json:"monthly_order_count"`
	TierID             string    `json:"tier_id"`
	TierName           string    `json:"tier_name"`
	DiscountPercentage string    `json:"discount_percentage"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// BatchResult summarizes a full recompute pass. Err aggregates the
// per-party failures; a partial failure never aborts the pass.
type BatchResult struct {
	Processed int
	Updated   int
	Failed    int
	Err       error
}

// MaintainerParams wires the maintainer dependencies.
type MaintainerParams struct {
	Catalog  *Catalog
	Parties  partyStore
	Orders   orderCounter
	Location *time.Location
	Logger   *logger.Logger
	Metrics  *metrics.TierMetrics
	Now      func() time.Time
}

type maintainer struct {
	catalog *Catalog
	parties partyStore
	orders  orderCounter
	loc     *time.Location
	logg    *logger.Logger
	metrics *metrics.TierMetrics
	now     func() time.Time
}

func NewMaintainer(params MaintainerParams) (Maintainer, error) {
	if params.Parties == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "party store is required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order counter is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	if params.Catalog == nil {
		params.Catalog = DefaultCatalog()
	}
	if params.Location == nil {
		params.Location = time.UTC
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &maintainer{
		catalog: params.Catalog,
		parties: params.Parties,
		orders:  params.Orders,
		loc:     params.Location,
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     params.Now,
	}, nil
}

// RecomputeParty counts the party's orders in the current calendar month
// and overwrites its volume and hybrid-auto tier assignments.
func (m *maintainer) RecomputeParty(ctx context.Context, partyID uuid.UUID) (*RecomputeResult, error) {
	started := m.now()
	result, err := m.recompute(ctx, partyID, started)
	m.metrics.ObserveDuration("party", m.now().Sub(started))
	if err != nil {
		m.metrics.IncFailure("party")
		return nil, err
	}
	m.metrics.IncSuccess("party")
	m.metrics.AddUpdated(1)
	return result, nil
}

func (m *maintainer) recompute(ctx context.Context, partyID uuid.UUID, now time.Time) (*RecomputeResult, error) {
	if partyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "party id is required")
	}

	from, to := monthWindow(now, m.loc)
	count, err := m.orders.CountForPartyBetween(ctx, partyID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count monthly orders")
	}

	// No matching band clears the assignment; resolution then yields a
	// zero discount rather than failing the recompute.
	state := TierState{
		MonthlyOrderCount: int(count),
		UpdatedAt:         now,
	}
	result := &RecomputeResult{
		PartyID:            partyID,
		MonthlyOrderCount:  int(count),
		DiscountPercentage: decimal.Zero.String(),
		UpdatedAt:          now,
	}
	if tier := m.catalog.TierForOrderCount(int(count)); tier != nil {
		state.VolumeTierID = tier.ID
		state.HybridAutoTierID = tier.ID
		result.TierID = tier.ID
		result.TierName = tier.Name
		result.DiscountPercentage = tier.DiscountPercentage.String()
	}

	if err := m.parties.UpdateTierState(ctx, partyID, state); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist tier state")
	}

	ctx = m.logg.WithFields(ctx, map[string]any{
		"party_id":    partyID.String(),
		"tier_id":     state.VolumeTierID,
		"order_count": count,
	})
	m.logg.Info(ctx, "party tier recomputed")

	return result, nil
}

// BatchRecompute refreshes every active party. Failures are recorded and
// skipped so one bad party cannot block the rest of the pass.
func (m *maintainer) BatchRecompute(ctx context.Context) (*BatchResult, error) {
	started := m.now()
	defer func() {
		m.metrics.ObserveDuration("batch", m.now().Sub(started))
	}()

	partyIDs, err := m.parties.ListActiveIDs(ctx)
	if err != nil {
		m.metrics.IncFailure("batch")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active parties")
	}

	result := &BatchResult{Processed: len(partyIDs)}
	for _, partyID := range partyIDs {
		if _, err := m.recompute(ctx, partyID, m.now()); err != nil {
			result.Failed++
			result.Err = multierr.Append(result.Err, err)
			m.logg.Error(m.logg.WithPartyID(ctx, partyID.String()), "batch tier recompute failed for party", err)
			continue
		}
		result.Updated++
	}

	m.metrics.AddUpdated(result.Updated)
	if result.Failed > 0 {
		m.metrics.IncFailure("batch")
	} else {
		m.metrics.IncSuccess("batch")
	}

	ctx = m.logg.WithFields(ctx, map[string]any{
		"processed": result.Processed,
		"updated":   result.Updated,
		"failed":    result.Failed,
	})
	m.logg.Info(ctx, "batch tier recompute finished")
	return result, nil
}

// monthWindow returns the half-open [start, end) bounds of the calendar
// month containing now, in the given location.
func monthWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
