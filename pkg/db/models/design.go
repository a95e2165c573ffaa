package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Design is a catalogue entry a party can order.
type Design struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU         string          `gorm:"column:sku;not null;uniqueIndex"`
	Name        string          `gorm:"column:name;not null"`
	Category    string          `gorm:"column:category;not null"`
	Description *string         `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric;not null"`
	ImageURL    *string         `gorm:"column:image_url"`
	Active      bool            `gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
