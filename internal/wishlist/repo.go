package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/loomery-io/loomery-backend/pkg/db/models"
)

// Repository handles wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to wishlist operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts the design into the party's wishlist. Re-adding an existing
// entry is a no-op.
func (r *Repository) Add(ctx context.Context, partyID, designID uuid.UUID) error {
	item := &models.WishlistItem{PartyID: partyID, DesignID: designID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(item).Error
}

// Remove deletes the design from the party's wishlist.
func (r *Repository) Remove(ctx context.Context, partyID, designID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("party_id = ? AND design_id = ?", partyID, designID).
		Delete(&models.WishlistItem{}).Error
}

// List returns the party's wishlist newest first.
func (r *Repository) List(ctx context.Context, partyID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := r.db.WithContext(ctx).
		Where("party_id = ?", partyID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
