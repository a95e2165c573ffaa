package enums

// PricingModel selects which discount resolution branch applies to a
// request. Unknown values are tolerated downstream and resolve to a
// zero discount rather than an error.
type PricingModel string

const (
	PricingModelVolume       PricingModel = "volume"
	PricingModelRelationship PricingModel = "relationship"
	PricingModelHybrid       PricingModel = "hybrid"
)

var validPricingModels = []PricingModel{
	PricingModelVolume,
	PricingModelRelationship,
	PricingModelHybrid,
}

// String implements fmt.Stringer.
func (p PricingModel) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PricingModel.
func (p PricingModel) IsValid() bool {
	for _, candidate := range validPricingModels {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePricingModel converts raw input into a PricingModel. Empty input
// defaults to the volume model, matching the checkout hook contract.
func ParsePricingModel(value string) PricingModel {
	if value == "" {
		return PricingModelVolume
	}
	return PricingModel(value)
}
