package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loomery-io/loomery-backend/pkg/enums"
)

// Order captures a placed order with the discount figures that were in
// effect at checkout time.
type Order struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartyID            uuid.UUID          `gorm:"column:party_id;type:uuid;not null"`
	Status             enums.OrderStatus  `gorm:"column:status;not null;default:'placed'"`
	PricingModel       enums.PricingModel `gorm:"column:pricing_model;not null;default:'volume'"`
	DiscountPercentage decimal.Decimal    `gorm:"column:discount_percentage;type:numeric;not null"`
	Subtotal           decimal.Decimal    `gorm:"column:subtotal;type:numeric;not null"`
	DiscountAmount     decimal.Decimal    `gorm:"column:discount_amount;type:numeric;not null"`
	Total              decimal.Decimal    `gorm:"column:total;type:numeric;not null"`
	Notes              *string            `gorm:"column:notes"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
