package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loomery-io/loomery-backend/pkg/db/models"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
	"github.com/loomery-io/loomery-backend/pkg/pagination"
)

type orderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, []models.OrderLineItem, error)
	ListByParty(ctx context.Context, partyID uuid.UUID, params pagination.Params) ([]models.Order, string, error)
	CountForPartyBetween(ctx context.Context, partyID uuid.UUID, from time.Time, to time.Time) (int64, error)
}

// Service exposes order reads. Orders are written by checkout only.
type Service interface {
	GetByID(ctx context.Context, partyID, orderID uuid.UUID) (*OrderDTO, error)
	ListByParty(ctx context.Context, partyID uuid.UUID, params pagination.Params) ([]OrderDTO, string, error)
}

type service struct {
	repo orderRepository
}

// NewService builds an order service with the provided repository.
func NewService(repo orderRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

// GetByID loads one order. The party scoping keeps retailers from reading
// other parties' orders.
func (s *service) GetByID(ctx context.Context, partyID, orderID uuid.UUID) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, items, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if partyID != uuid.Nil && order.PartyID != partyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return FromModel(order, items), nil
}

func (s *service) ListByParty(ctx context.Context, partyID uuid.UUID, params pagination.Params) ([]OrderDTO, string, error) {
	if partyID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "party id is required")
	}

	rows, next, err := s.repo.ListByParty(ctx, partyID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i], nil))
	}
	return dtos, next, nil
}
