package tiers

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/loomery-io/loomery-backend/pkg/logger"
)

type stubPartyStore struct {
	activeIDs []uuid.UUID
	listErr   error

	updates   []TierState
	updateIDs []uuid.UUID
	failFor   map[uuid.UUID]error
}

func (s *stubPartyStore) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.activeIDs, nil
}

func (s *stubPartyStore) UpdateTierState(ctx context.Context, partyID uuid.UUID, state TierState) error {
	if err, ok := s.failFor[partyID]; ok {
		return err
	}
	s.updateIDs = append(s.updateIDs, partyID)
	s.updates = append(s.updates, state)
	return nil
}

type stubOrderCounter struct {
	counts   map[uuid.UUID]int64
	countErr error

	lastFrom time.Time
	lastTo   time.Time
}

func (s *stubOrderCounter) CountForPartyBetween(ctx context.Context, partyID uuid.UUID, from time.Time, to time.Time) (int64, error) {
	s.lastFrom = from
	s.lastTo = to
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.counts[partyID], nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestMaintainer(t *testing.T, parties *stubPartyStore, orders *stubOrderCounter, now time.Time) Maintainer {
	t.Helper()
	m, err := NewMaintainer(MaintainerParams{
		Parties: parties,
		Orders:  orders,
		Logger:  testLogger(),
		Now:     func() time.Time { return now },
	})
	require.NoError(t, err)
	return m
}

func TestRecomputePartyAssignsTierFromMonthlyCount(t *testing.T) {
	partyID := uuid.New()
	parties := &stubPartyStore{}
	orders := &stubOrderCounter{counts: map[uuid.UUID]int64{partyID: 30}}
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	m := newTestMaintainer(t, parties, orders, now)

	result, err := m.RecomputeParty(context.Background(), partyID)
	require.NoError(t, err)

	assert.Equal(t, "silver", result.TierID)
	assert.Equal(t, "Silver", result.TierName)
	assert.Equal(t, "10", result.DiscountPercentage)
	assert.Equal(t, 30, result.MonthlyOrderCount)

	require.Len(t, parties.updates, 1)
	assert.Equal(t, "silver", parties.updates[0].VolumeTierID)
	assert.Equal(t, "silver", parties.updates[0].HybridAutoTierID)
	assert.Equal(t, 30, parties.updates[0].MonthlyOrderCount)
}

func TestRecomputePartyCountsCalendarMonth(t *testing.T) {
	partyID := uuid.New()
	parties := &stubPartyStore{}
	orders := &stubOrderCounter{counts: map[uuid.UUID]int64{}}
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	m := newTestMaintainer(t, parties, orders, now)

	_, err := m.RecomputeParty(context.Background(), partyID)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), orders.lastFrom)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), orders.lastTo)
}

func TestRecomputePartyIdempotent(t *testing.T) {
	partyID := uuid.New()
	parties := &stubPartyStore{}
	orders := &stubOrderCounter{counts: map[uuid.UUID]int64{partyID: 12}}
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	m := newTestMaintainer(t, parties, orders, now)

	first, err := m.RecomputeParty(context.Background(), partyID)
	require.NoError(t, err)
	second, err := m.RecomputeParty(context.Background(), partyID)
	require.NoError(t, err)

	assert.Equal(t, first.TierID, second.TierID)
	assert.Equal(t, first.MonthlyOrderCount, second.MonthlyOrderCount)

	require.Len(t, parties.updates, 2)
	assert.Equal(t, parties.updates[0], parties.updates[1])
}

func TestRecomputePartyZeroOrders(t *testing.T) {
	partyID := uuid.New()
	parties := &stubPartyStore{}
	orders := &stubOrderCounter{counts: map[uuid.UUID]int64{}}

	m := newTestMaintainer(t, parties, orders, time.Now())

	result, err := m.RecomputeParty(context.Background(), partyID)
	require.NoError(t, err)
	assert.Equal(t, "copper", result.TierID)
	assert.Equal(t, "0", result.DiscountPercentage)
}

func TestRecomputePartyNoMatchingBandClearsTier(t *testing.T) {
	partyID := uuid.New()
	parties := &stubPartyStore{}
	orders := &stubOrderCounter{counts: map[uuid.UUID]int64{partyID: 7}}
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	// Direct construction skips NewCatalog validation, leaving low counts
	// uncovered.
	catalog := &Catalog{volume: []VolumeTier{
		{ID: "bulk", Name: "Bulk", MinOrders: 50, DiscountPercentage: decimal.NewFromInt(20)},
	}}

	m, err := NewMaintainer(MaintainerParams{
		Catalog: catalog,
		Parties: parties,
		Orders:  orders,
		Logger:  testLogger(),
		Now:     func() time.Time { return now },
	})
	require.NoError(t, err)

	result, err := m.RecomputeParty(context.Background(), partyID)
	require.NoError(t, err)

	assert.Empty(t, result.TierID)
	assert.Empty(t, result.TierName)
	assert.Equal(t, "0", result.DiscountPercentage)
	assert.Equal(t, 7, result.MonthlyOrderCount)

	require.Len(t, parties.updates, 1)
	assert.Empty(t, parties.updates[0].VolumeTierID)
	assert.Empty(t, parties.updates[0].HybridAutoTierID)
	assert.Equal(t, 7, parties.updates[0].MonthlyOrderCount)
}

func TestRecomputePartyNilID(t *testing.T) {
	m := newTestMaintainer(t, &stubPartyStore{}, &stubOrderCounter{}, time.Now())

	_, err := m.RecomputeParty(context.Background(), uuid.Nil)
	require.Error(t, err)
}

func TestRecomputePartyCountFailure(t *testing.T) {
	parties := &stubPartyStore{}
	orders := &stubOrderCounter{countErr: errors.New("connection refused")}

	m := newTestMaintainer(t, parties, orders, time.Now())

	_, err := m.RecomputeParty(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Empty(t, parties.updates)
}

func TestBatchRecomputeIsolatesFailures(t *testing.T) {
	good1, bad, good2 := uuid.New(), uuid.New(), uuid.New()
	parties := &stubPartyStore{
		activeIDs: []uuid.UUID{good1, bad, good2},
		failFor:   map[uuid.UUID]error{bad: errors.New("deadlock detected")},
	}
	orders := &stubOrderCounter{counts: map[uuid.UUID]int64{good1: 5, bad: 60, good2: 200}}

	m := newTestMaintainer(t, parties, orders, time.Now())

	result, err := m.BatchRecompute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, multierr.Errors(result.Err), 1)

	assert.Equal(t, []uuid.UUID{good1, good2}, parties.updateIDs)
	assert.Equal(t, "copper", parties.updates[0].VolumeTierID)
	assert.Equal(t, "platinum", parties.updates[1].VolumeTierID)
}

func TestBatchRecomputeListFailure(t *testing.T) {
	parties := &stubPartyStore{listErr: errors.New("timeout")}

	m := newTestMaintainer(t, parties, &stubOrderCounter{}, time.Now())

	_, err := m.BatchRecompute(context.Background())
	require.Error(t, err)
}

func TestBatchRecomputeEmpty(t *testing.T) {
	m := newTestMaintainer(t, &stubPartyStore{}, &stubOrderCounter{}, time.Now())

	result, err := m.BatchRecompute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	assert.NoError(t, result.Err)
}

func TestNewMaintainerValidatesDeps(t *testing.T) {
	_, err := NewMaintainer(MaintainerParams{Orders: &stubOrderCounter{}, Logger: testLogger()})
	require.Error(t, err)

	_, err = NewMaintainer(MaintainerParams{Parties: &stubPartyStore{}, Logger: testLogger()})
	require.Error(t, err)

	_, err = NewMaintainer(MaintainerParams{Parties: &stubPartyStore{}, Orders: &stubOrderCounter{}})
	require.Error(t, err)
}

func TestMonthWindowInTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 2025-06-30 20:30 UTC is already 2025-07-01 02:00 in Kolkata.
	now := time.Date(2025, 6, 30, 20, 30, 0, 0, time.UTC)
	from, to := monthWindow(now, loc)

	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, loc), to)
}
