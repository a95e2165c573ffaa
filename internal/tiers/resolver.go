package tiers

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loomery-io/loomery-backend/pkg/db/models"
	"github.com/loomery-io/loomery-backend/pkg/enums"
)

var oneHundred = decimal.NewFromInt(100)

// Resolver answers discount questions from a party's persisted tier state.
// Resolution never fails: missing parties, unassigned tiers, and unknown
// tier ids all resolve to a zero discount so checkout keeps working.
type Resolver struct {
	catalog *Catalog
}

func NewResolver(catalog *Catalog) *Resolver {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Resolver{catalog: catalog}
}

func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// ResolvedDiscount is the outcome of a discount resolution. TierID is
// empty when no tier applied, in which case Percentage is zero.
type ResolvedDiscount struct {
	Percentage decimal.Decimal
	TierID     string
	TierName   string
	Overridden bool
}

// Resolve returns the discount and the tier that produced it for the party
// under the given pricing model.
func (r *Resolver) Resolve(party *models.Party, model enums.PricingModel) ResolvedDiscount {
	none := ResolvedDiscount{Percentage: decimal.Zero}
	if r == nil || party == nil {
		return none
	}

	switch model {
	case enums.PricingModelVolume:
		return r.volumeDiscount(party.VolumeTierID, false)
	case enums.PricingModelRelationship:
		return r.relationshipDiscount(party.RelationshipTierID)
	case enums.PricingModelHybrid:
		if party.HybridManualOverride && party.HybridOverrideTierID != nil {
			return r.volumeDiscount(party.HybridOverrideTierID, true)
		}
		return r.volumeDiscount(party.HybridAutoTierID, false)
	default:
		return none
	}
}

// ResolveDiscount returns just the discount percentage for the party under
// the given pricing model.
func (r *Resolver) ResolveDiscount(party *models.Party, model enums.PricingModel) decimal.Decimal {
	return r.Resolve(party, model).Percentage
}

func (r *Resolver) volumeDiscount(tierID *string, overridden bool) ResolvedDiscount {
	if tierID == nil {
		return ResolvedDiscount{Percentage: decimal.Zero}
	}
	tier, ok := r.catalog.VolumeTierByID(*tierID)
	if !ok {
		return ResolvedDiscount{Percentage: decimal.Zero}
	}
	return ResolvedDiscount{
		Percentage: tier.DiscountPercentage,
		TierID:     tier.ID,
		TierName:   tier.Name,
		Overridden: overridden,
	}
}

func (r *Resolver) relationshipDiscount(tierID *string) ResolvedDiscount {
	if tierID == nil {
		return ResolvedDiscount{Percentage: decimal.Zero}
	}
	tier, ok := r.catalog.RelationshipTierByID(*tierID)
	if !ok {
		return ResolvedDiscount{Percentage: decimal.Zero}
	}
	return ResolvedDiscount{
		Percentage: tier.DiscountPercentage,
		TierID:     tier.ID,
		TierName:   tier.Name,
	}
}

// ApplyDiscount returns the price after deducting the percentage. No
// rounding is imposed here; callers round at presentation time.
func ApplyDiscount(price decimal.Decimal, percentage decimal.Decimal) decimal.Decimal {
	if percentage.IsZero() {
		return price
	}
	return price.Mul(oneHundred.Sub(percentage)).Div(oneHundred)
}

// LineItemInput is one cart or order line before pricing.
type LineItemInput struct {
	DesignID uuid.UUID
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// PricedLineItem is a line item with the discount applied.
type PricedLineItem struct {
	DesignID           uuid.UUID
	Name               string
	Quantity           int
	OriginalPrice      decimal.Decimal
	DiscountPercentage decimal.Decimal
	DiscountedPrice    decimal.Decimal
	LineTotal          decimal.Decimal
}

// OrderTotals aggregates a priced set of line items.
type OrderTotals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	ItemCount      int
	TotalQuantity  int
}

// AnnotateLineItems applies a single discount percentage to every line and
// returns the priced lines plus totals. The input slice is not modified.
// Quantities below one are priced as a single unit.
func AnnotateLineItems(items []LineItemInput, percentage decimal.Decimal) ([]PricedLineItem, OrderTotals) {
	priced := make([]PricedLineItem, 0, len(items))
	totals := OrderTotals{
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		Total:          decimal.Zero,
	}

	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		quantity := decimal.NewFromInt(int64(qty))
		discounted := ApplyDiscount(item.Price, percentage)
		lineTotal := discounted.Mul(quantity)

		priced = append(priced, PricedLineItem{
			DesignID:           item.DesignID,
			Name:               item.Name,
			Quantity:           qty,
			OriginalPrice:      item.Price,
			DiscountPercentage: percentage,
			DiscountedPrice:    discounted,
			LineTotal:          lineTotal,
		})

		totals.Subtotal = totals.Subtotal.Add(item.Price.Mul(quantity))
		totals.Total = totals.Total.Add(lineTotal)
		totals.ItemCount++
		totals.TotalQuantity += qty
	}

	totals.DiscountAmount = totals.Subtotal.Sub(totals.Total)
	return priced, totals
}

// ComputeOrderTotals returns just the aggregate figures for a quote
// preview, without materializing priced lines for the caller.
func ComputeOrderTotals(items []LineItemInput, percentage decimal.Decimal) OrderTotals {
	_, totals := AnnotateLineItems(items, percentage)
	return totals
}
