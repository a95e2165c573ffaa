package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/loomery-io/loomery-backend/internal/orders"
	"github.com/loomery-io/loomery-backend/internal/tiers"
	"github.com/loomery-io/loomery-backend/pkg/db/models"
	"github.com/loomery-io/loomery-backend/pkg/enums"
	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
	"github.com/loomery-io/loomery-backend/pkg/logger"
)

type partyLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Party, error)
}

type designLoader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Design, error)
}

type orderWriter interface {
	Create(ctx context.Context, order *models.Order, items []models.OrderLineItem) error
}

type recomputer interface {
	RecomputeParty(ctx context.Context, partyID uuid.UUID) (*tiers.RecomputeResult, error)
}

type dispatcher interface {
	Go(name string, task func(ctx context.Context) error)
}

// Service places orders. Discount resolution is best-effort: any failure
// to load the party degrades to a zero discount and checkout proceeds.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*orders.OrderDTO, error)
}

// CheckoutInput is a cart ready to be placed.
type CheckoutInput struct {
	PartyID      uuid.UUID
	PricingModel enums.PricingModel
	Items        []CheckoutItem
	Notes        *string
}

// CheckoutItem references a design by id; pricing comes from the
// catalogue, never from the client.
type CheckoutItem struct {
	DesignID uuid.UUID
	Quantity int
}

type service struct {
	parties    partyLoader
	designs    designLoader
	orders     orderWriter
	resolver   *tiers.Resolver
	maintainer recomputer
	runner     dispatcher
	logg       *logger.Logger
}

// ServiceParams wires the checkout dependencies.
type ServiceParams struct {
	Parties    partyLoader
	Designs    designLoader
	Orders     orderWriter
	Resolver   *tiers.Resolver
	Maintainer recomputer
	Runner     dispatcher
	Logger     *logger.Logger
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Parties == nil {
		return nil, fmt.Errorf("party loader required")
	}
	if params.Designs == nil {
		return nil, fmt.Errorf("design loader required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if params.Maintainer == nil {
		return nil, fmt.Errorf("tier maintainer required")
	}
	if params.Runner == nil {
		return nil, fmt.Errorf("background runner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Resolver == nil {
		params.Resolver = tiers.NewResolver(nil)
	}
	return &service{
		parties:    params.Parties,
		designs:    params.Designs,
		orders:     params.Orders,
		resolver:   params.Resolver,
		maintainer: params.Maintainer,
		runner:     params.Runner,
		logg:       params.Logger,
	}, nil
}

func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*orders.OrderDTO, error) {
	if input.PartyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "party id is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
	}

	model := input.PricingModel
	if model == "" {
		model = enums.PricingModelVolume
	}

	lineInputs, err := s.priceItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	resolved := s.resolveDiscount(ctx, input.PartyID, model)
	priced, totals := tiers.AnnotateLineItems(lineInputs, resolved.Percentage)

	order := &models.Order{
		PartyID:            input.PartyID,
		Status:             enums.OrderStatusPlaced,
		PricingModel:       model,
		DiscountPercentage: resolved.Percentage,
		Subtotal:           totals.Subtotal,
		DiscountAmount:     totals.DiscountAmount,
		Total:              totals.Total,
		Notes:              input.Notes,
	}
	lineItems := make([]models.OrderLineItem, 0, len(priced))
	for _, line := range priced {
		designID := line.DesignID
		lineItems = append(lineItems, models.OrderLineItem{
			DesignID:           &designID,
			Name:               line.Name,
			Quantity:           line.Quantity,
			OriginalPrice:      line.OriginalPrice,
			DiscountPercentage: line.DiscountPercentage,
			DiscountedPrice:    line.DiscountedPrice,
			FinalPrice:         line.LineTotal,
		})
	}

	if err := s.orders.Create(ctx, order, lineItems); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"party_id": input.PartyID.String(),
		"discount": resolved.Percentage.String(),
	})
	s.logg.Info(ctx, "order placed")

	partyID := input.PartyID
	s.runner.Go("tier-recompute", func(taskCtx context.Context) error {
		_, err := s.maintainer.RecomputeParty(taskCtx, partyID)
		return err
	})

	return orders.FromModel(order, lineItems), nil
}

// priceItems loads the referenced designs and builds the unpriced lines.
// Unknown or inactive designs reject the checkout.
func (s *service) priceItems(ctx context.Context, items []CheckoutItem) ([]tiers.LineItemInput, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.DesignID)
	}

	designs, err := s.designs.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load designs")
	}
	byID := make(map[uuid.UUID]models.Design, len(designs))
	for _, design := range designs {
		byID[design.ID] = design
	}

	lines := make([]tiers.LineItemInput, 0, len(items))
	for _, item := range items {
		design, ok := byID[item.DesignID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown design %s", item.DesignID))
		}
		if !design.Active {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("design %s is not available", item.DesignID))
		}
		lines = append(lines, tiers.LineItemInput{
			DesignID: design.ID,
			Name:     design.Name,
			Price:    design.Price,
			Quantity: item.Quantity,
		})
	}
	return lines, nil
}

// resolveDiscount never fails checkout: a party that cannot be loaded
// simply gets no discount.
func (s *service) resolveDiscount(ctx context.Context, partyID uuid.UUID, model enums.PricingModel) tiers.ResolvedDiscount {
	party, err := s.parties.FindByID(ctx, partyID)
	if err != nil {
		s.logg.Warn(s.logg.WithPartyID(ctx, partyID.String()), "discount lookup failed, applying zero discount")
		return s.resolver.Resolve(nil, model)
	}
	return s.resolver.Resolve(party, model)
}
