package parties

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loomery-io/loomery-backend/internal/tiers"
	"github.com/loomery-io/loomery-backend/pkg/db/models"
)

// Repository handles party persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to party operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new party row.
func (r *Repository) Create(ctx context.Context, dto CreatePartyDTO) (*models.Party, error) {
	party := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(party).Error; err != nil {
		return nil, err
	}
	return party, nil
}

// FindByID loads a party by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Party, error) {
	var party models.Party
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&party).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

// Update saves the provided party.
func (r *Repository) Update(ctx context.Context, party *models.Party) error {
	if party == nil {
		return fmt.Errorf("party is required")
	}
	return r.db.WithContext(ctx).Save(party).Error
}

// ListActiveIDs returns the ids of all active parties, ordered for stable
// batch traversal.
func (r *Repository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Party{}).
		Where("active = ?", true).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateTierState overwrites the derived tier columns for a party.
func (r *Repository) UpdateTierState(ctx context.Context, partyID uuid.UUID, state tiers.TierState) error {
	result := r.db.WithContext(ctx).
		Model(&models.Party{}).
		Where("id = ?", partyID).
		Updates(map[string]any{
			"volume_tier_id":      nullableTierID(state.VolumeTierID),
			"hybrid_auto_tier_id": nullableTierID(state.HybridAutoTierID),
			"monthly_order_count": state.MonthlyOrderCount,
			"tier_last_updated":   state.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// nullableTierID maps a cleared assignment to a NULL column.
func nullableTierID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
