package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/loomery-io/loomery-backend/pkg/db/models"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
	"github.com/loomery-io/loomery-backend/pkg/pagination"
)

type stubOrderRepo struct {
	order *models.Order
	items []models.OrderLineItem
	rows  []models.Order
	next  string
	err   error
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, []models.OrderLineItem, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.order, s.items, nil
}

func (s *stubOrderRepo) ListByParty(ctx context.Context, partyID uuid.UUID, params pagination.Params) ([]models.Order, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.rows, s.next, nil
}

func (s *stubOrderRepo) CountForPartyBetween(ctx context.Context, partyID uuid.UUID, from time.Time, to time.Time) (int64, error) {
	return 0, nil
}

func sampleOrder(partyID uuid.UUID) *models.Order {
	return &models.Order{
		ID:                 uuid.New(),
		PartyID:            partyID,
		DiscountPercentage: decimal.NewFromInt(15),
		Subtotal:           decimal.NewFromInt(200),
		DiscountAmount:     decimal.NewFromInt(30),
		Total:              decimal.NewFromInt(170),
	}
}

func TestServiceGetByID(t *testing.T) {
	partyID := uuid.New()
	order := sampleOrder(partyID)
	svc, err := NewService(&stubOrderRepo{order: order})
	require.NoError(t, err)

	dto, err := svc.GetByID(context.Background(), partyID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "170", dto.Total)
	assert.Equal(t, "15", dto.DiscountPercentage)
}

func TestServiceGetByIDScopedToParty(t *testing.T) {
	order := sampleOrder(uuid.New())
	svc, err := NewService(&stubOrderRepo{order: order})
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), uuid.New(), order.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc, err := NewService(&stubOrderRepo{err: gorm.ErrRecordNotFound})
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceListByParty(t *testing.T) {
	partyID := uuid.New()
	svc, err := NewService(&stubOrderRepo{rows: []models.Order{*sampleOrder(partyID)}, next: "cursor"})
	require.NoError(t, err)

	dtos, next, err := svc.ListByParty(context.Background(), partyID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "cursor", next)
}

func TestServiceListByPartyDependencyError(t *testing.T) {
	svc, err := NewService(&stubOrderRepo{err: errors.New("boom")})
	require.NoError(t, err)

	_, _, err = svc.ListByParty(context.Background(), uuid.New(), pagination.Params{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}
