package parties

import (
	"time"

	"github.com/google/uuid"

	"github.com/loomery-io/loomery-backend/pkg/db/models"
)

// PartyDTO exposes party data, including its current tier assignments, in
// API responses.
type PartyDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	GSTIN  *string   `json:"gstin,omitempty"`
	City   *string   `json:"city,omitempty"`
	Phone  *string   `json:"phone,omitempty"`
	Email  *string   `json:"email,omitempty"`
	Active bool      `json:"active"`

	VolumeTierID         *string    `json:"volume_tier_id,omitempty"`
	RelationshipTierID   *string    `json:"relationship_tier_id,omitempty"`
	HybridAutoTierID     *string    `json:"hybrid_auto_tier_id,omitempty"`
	HybridManualOverride bool       `json:"hybrid_manual_override"`
	HybridOverrideTierID *string    `json:"hybrid_override_tier_id,omitempty"`
	MonthlyOrderCount    int        `json:"monthly_order_count"`
	TierLastUpdated      *time.Time `json:"tier_last_updated,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatePartyDTO holds creation-time data for a new party.
type CreatePartyDTO struct {
	Name    string
	GSTIN   *string
	City    *string
	Phone   *string
	Email   *string
	OwnerID uuid.UUID
}

// FromModel maps the persisted party into a DTO.
func FromModel(m *models.Party) *PartyDTO {
	if m == nil {
		return nil
	}
	return &PartyDTO{
		ID:                   m.ID,
		Name:                 m.Name,
		GSTIN:                m.GSTIN,
		City:                 m.City,
		Phone:                m.Phone,
		Email:                m.Email,
		Active:               m.Active,
		VolumeTierID:         m.VolumeTierID,
		RelationshipTierID:   m.RelationshipTierID,
		HybridAutoTierID:     m.HybridAutoTierID,
		HybridManualOverride: m.HybridManualOverride,
		HybridOverrideTierID: m.HybridOverrideTierID,
		MonthlyOrderCount:    m.MonthlyOrderCount,
		TierLastUpdated:      m.TierLastUpdated,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO. New parties start
// untiered; the first recompute assigns their volume tier.
func (c CreatePartyDTO) ToModel() *models.Party {
	return &models.Party{
		Name:    c.Name,
		GSTIN:   c.GSTIN,
		City:    c.City,
		Phone:   c.Phone,
		Email:   c.Email,
		Active:  true,
		OwnerID: c.OwnerID,
	}
}
