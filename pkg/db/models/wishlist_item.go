package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem marks a design a party wants to revisit later.
type WishlistItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartyID   uuid.UUID `gorm:"column:party_id;type:uuid;not null;uniqueIndex:idx_wishlist_party_design"`
	DesignID  uuid.UUID `gorm:"column:design_id;type:uuid;not null;uniqueIndex:idx_wishlist_party_design"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
