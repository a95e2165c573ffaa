package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineItem snapshots one cart item at checkout. Both the original
// and discounted figures are stored for the audit trail.
type OrderLineItem struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID            uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	DesignID           *uuid.UUID      `gorm:"column:design_id;type:uuid"`
	Name               string          `gorm:"column:name;not null"`
	Quantity           int             `gorm:"column:quantity;not null"`
	OriginalPrice      decimal.Decimal `gorm:"column:original_price;type:numeric;not null"`
	DiscountPercentage decimal.Decimal `gorm:"column:discount_percentage;type:numeric;not null"`
	DiscountedPrice    decimal.Decimal `gorm:"column:discounted_price;type:numeric;not null"`
	FinalPrice         decimal.Decimal `gorm:"column:final_price;type:numeric;not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
}
