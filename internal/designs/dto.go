package designs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loomery-io/loomery-backend/pkg/db/models"
)

// DesignDTO exposes catalogue entries in API responses.
type DesignDTO struct {
	ID          uuid.UUID `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description *string   `json:"description,omitempty"`
	Price       string    `json:"price"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateDesignDTO holds creation-time data for a catalogue entry.
type CreateDesignDTO struct {
	SKU         string
	Name        string
	Category    string
	Description *string
	Price       decimal.Decimal
	ImageURL    *string
}

// FromModel maps the persisted design into a DTO.
func FromModel(m *models.Design) *DesignDTO {
	if m == nil {
		return nil
	}
	return &DesignDTO{
		ID:          m.ID,
		SKU:         m.SKU,
		Name:        m.Name,
		Category:    m.Category,
		Description: m.Description,
		Price:       m.Price.String(),
		ImageURL:    m.ImageURL,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO.
func (c CreateDesignDTO) ToModel() *models.Design {
	return &models.Design{
		SKU:         c.SKU,
		Name:        c.Name,
		Category:    c.Category,
		Description: c.Description,
		Price:       c.Price,
		ImageURL:    c.ImageURL,
		Active:      true,
	}
}
