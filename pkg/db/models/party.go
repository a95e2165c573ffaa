package models

import (
	"time"

	"github.com/google/uuid"
)

// Party represents a retail business account eligible for tiered
// discounts. Tier ids reference the configured tier catalog by slug,
// not by foreign key, so the catalog can be reshaped without data
// migrations; unknown ids simply resolve to a zero discount.
type Party struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	GSTIN     *string   `gorm:"column:gstin"`
	City      *string   `gorm:"column:city"`
	Phone     *string   `gorm:"column:phone"`
	Email     *string   `gorm:"column:email"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	OwnerID   uuid.UUID `gorm:"column:owner;type:uuid;not null"`

	VolumeTierID         *string    `gorm:"column:volume_tier_id"`
	RelationshipTierID   *string    `gorm:"column:relationship_tier_id"`
	HybridAutoTierID     *string    `gorm:"column:hybrid_auto_tier_id"`
	HybridManualOverride bool       `gorm:"column:hybrid_manual_override;not null;default:false"`
	HybridOverrideTierID *string    `gorm:"column:hybrid_override_tier_id"`
	MonthlyOrderCount    int        `gorm:"column:monthly_order_count;not null;default:0"`
	TierLastUpdated      *time.Time `gorm:"column:tier_last_updated"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
