package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/loomery-io/loomery-backend/pkg/db/models"
	"github.com/loomery-io/loomery-backend/pkg/enums"
)

// OrderDTO exposes an order with its line items in API responses.
type OrderDTO struct {
	ID                 uuid.UUID          `json:"id"`
	PartyID            uuid.UUID          `json:"party_id"`
	Status             enums.OrderStatus  `json:"status"`
	PricingModel       enums.PricingModel `json:"pricing_model"`
	DiscountPercentage string             `json:"discount_percentage"`
	Subtotal           string             `json:"subtotal"`
	DiscountAmount     string             `json:"discount_amount"`
	Total              string             `json:"total"`
	Notes              *string            `json:"notes,omitempty"`
	LineItems          []LineItemDTO      `json:"line_items,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// LineItemDTO exposes one order line with both original and discounted
// figures.
type LineItemDTO struct {
	ID                 uuid.UUID  `json:"id"`
	DesignID           *uuid.UUID `json:"design_id,omitempty"`
	Name               string     `json:"name"`
	Quantity           int        `json:"quantity"`
	OriginalPrice      string     `json:"original_price"`
	DiscountPercentage string     `json:"discount_percentage"`
	DiscountedPrice    string     `json:"discounted_price"`
	FinalPrice         string     `json:"final_price"`
}

// FromModel maps the persisted order and its items into a DTO.
func FromModel(order *models.Order, items []models.OrderLineItem) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:                 order.ID,
		PartyID:            order.PartyID,
		Status:             order.Status,
		PricingModel:       order.PricingModel,
		DiscountPercentage: order.DiscountPercentage.String(),
		Subtotal:           order.Subtotal.String(),
		DiscountAmount:     order.DiscountAmount.String(),
		Total:              order.Total.String(),
		Notes:              order.Notes,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
	for _, item := range items {
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			ID:                 item.ID,
			DesignID:           item.DesignID,
			Name:               item.Name,
			Quantity:           item.Quantity,
			OriginalPrice:      item.OriginalPrice.String(),
			DiscountPercentage: item.DiscountPercentage.String(),
			DiscountedPrice:    item.DiscountedPrice.String(),
			FinalPrice:         item.FinalPrice.String(),
		})
	}
	return dto
}
