package tiers

import (
	"fmt"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/loomery-io/loomery-backend/pkg/errors"
)

// VolumeTier is a contiguous band of monthly order counts mapped to a
// discount percentage. MaxOrders is nil for the open-ended top band.
type VolumeTier struct {
	ID                 string
	Name               string
	MinOrders          int
	MaxOrders          *int
	DiscountPercentage decimal.Decimal
}

// Contains reports whether the order count falls inside this band.
func (t VolumeTier) Contains(orderCount int) bool {
	if orderCount < t.MinOrders {
		return false
	}
	if t.MaxOrders == nil {
		return true
	}
	return orderCount <= *t.MaxOrders
}

// RelationshipTier is a manually assigned partnership level with a flat
// discount percentage.
type RelationshipTier struct {
	ID                 string
	Name               string
	DiscountPercentage decimal.Decimal
}

// Catalog holds the validated tier definitions. Volume tiers are kept in
// ascending band order so resolution is a first-match scan.
type Catalog struct {
	volume           []VolumeTier
	relationship     []RelationshipTier
	volumeByID       map[string]VolumeTier
	relationshipByID map[string]RelationshipTier
}

// NewCatalog validates the definitions and builds the lookup indexes.
func NewCatalog(volume []VolumeTier, relationship []RelationshipTier) (*Catalog, error) {
	if err := validateVolume(volume); err != nil {
		return nil, err
	}
	if err := validateRelationship(relationship); err != nil {
		return nil, err
	}

	catalog := &Catalog{
		volume:           append([]VolumeTier(nil), volume...),
		relationship:     append([]RelationshipTier(nil), relationship...),
		volumeByID:       make(map[string]VolumeTier, len(volume)),
		relationshipByID: make(map[string]RelationshipTier, len(relationship)),
	}
	for _, tier := range catalog.volume {
		catalog.volumeByID[tier.ID] = tier
	}
	for _, tier := range catalog.relationship {
		catalog.relationshipByID[tier.ID] = tier
	}
	return catalog, nil
}

// DefaultCatalog returns the built-in tier definitions.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(defaultVolumeTiers(), defaultRelationshipTiers())
	if err != nil {
		panic(fmt.Sprintf("default tier catalog invalid: %v", err))
	}
	return catalog
}

func defaultVolumeTiers() []VolumeTier {
	return []VolumeTier{
		{ID: "copper", Name: "Copper", MinOrders: 0, MaxOrders: intPtr(10), DiscountPercentage: decimal.Zero},
		{ID: "bronze", Name: "Bronze", MinOrders: 11, MaxOrders: intPtr(25), DiscountPercentage: decimal.NewFromInt(5)},
		{ID: "silver", Name: "Silver", MinOrders: 26, MaxOrders: intPtr(50), DiscountPercentage: decimal.NewFromInt(10)},
		{ID: "gold", Name: "Gold", MinOrders: 51, MaxOrders: intPtr(100), DiscountPercentage: decimal.NewFromInt(15)},
		{ID: "platinum", Name: "Platinum", MinOrders: 101, MaxOrders: nil, DiscountPercentage: decimal.NewFromInt(20)},
	}
}

func defaultRelationshipTiers() []RelationshipTier {
	return []RelationshipTier{
		{ID: "standard", Name: "Standard", DiscountPercentage: decimal.Zero},
		{ID: "preferred", Name: "Preferred", DiscountPercentage: decimal.NewFromInt(7)},
		{ID: "strategic", Name: "Strategic", DiscountPercentage: decimal.NewFromInt(12)},
	}
}

// TierForOrderCount returns the first volume tier whose band contains the
// count, or nil when no band matches.
func (c *Catalog) TierForOrderCount(orderCount int) *VolumeTier {
	if c == nil || orderCount < 0 {
		return nil
	}
	for i := range c.volume {
		if c.volume[i].Contains(orderCount) {
			tier := c.volume[i]
			return &tier
		}
	}
	return nil
}

// VolumeTierByID looks up a volume tier by its identifier.
func (c *Catalog) VolumeTierByID(id string) (*VolumeTier, bool) {
	if c == nil {
		return nil, false
	}
	tier, ok := c.volumeByID[id]
	if !ok {
		return nil, false
	}
	return &tier, true
}

// RelationshipTierByID looks up a relationship tier by its identifier.
func (c *Catalog) RelationshipTierByID(id string) (*RelationshipTier, bool) {
	if c == nil {
		return nil, false
	}
	tier, ok := c.relationshipByID[id]
	if !ok {
		return nil, false
	}
	return &tier, true
}

// VolumeTiers returns the volume tiers in band order.
func (c *Catalog) VolumeTiers() []VolumeTier {
	if c == nil {
		return nil
	}
	return append([]VolumeTier(nil), c.volume...)
}

// RelationshipTiers returns the relationship tier definitions.
func (c *Catalog) RelationshipTiers() []RelationshipTier {
	if c == nil {
		return nil
	}
	return append([]RelationshipTier(nil), c.relationship...)
}

func validateVolume(volume []VolumeTier) error {
	if len(volume) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "volume tiers are required")
	}
	if volume[0].MinOrders != 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "first volume tier must start at zero orders")
	}

	seen := make(map[string]struct{}, len(volume))
	for i, tier := range volume {
		if tier.ID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("volume tier at index %d has no id", i))
		}
		if _, dup := seen[tier.ID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate volume tier id %q", tier.ID))
		}
		seen[tier.ID] = struct{}{}

		if err := validateDiscount(tier.ID, tier.DiscountPercentage); err != nil {
			return err
		}

		last := i == len(volume)-1
		if tier.MaxOrders == nil {
			if !last {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("volume tier %q is open-ended but not last", tier.ID))
			}
			continue
		}
		if *tier.MaxOrders < tier.MinOrders {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("volume tier %q has max below min", tier.ID))
		}
		if last {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("last volume tier %q must be open-ended", tier.ID))
		}
		if volume[i+1].MinOrders != *tier.MaxOrders+1 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("volume tiers %q and %q do not form contiguous bands", tier.ID, volume[i+1].ID))
		}
	}
	return nil
}

func validateRelationship(relationship []RelationshipTier) error {
	seen := make(map[string]struct{}, len(relationship))
	for i, tier := range relationship {
		if tier.ID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("relationship tier at index %d has no id", i))
		}
		if _, dup := seen[tier.ID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate relationship tier id %q", tier.ID))
		}
		seen[tier.ID] = struct{}{}

		if err := validateDiscount(tier.ID, tier.DiscountPercentage); err != nil {
			return err
		}
	}
	return nil
}

func validateDiscount(tierID string, pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("tier %q discount must be between 0 and 100", tierID))
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}
