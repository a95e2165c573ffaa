package auth

import (
	"github.com/google/uuid"

	"github.com/loomery-io/loomery-backend/pkg/db/models"
	"github.com/loomery-io/loomery-backend/pkg/enums"
)

// UserDTO exposes safe user fields in API responses.
type UserDTO struct {
	ID        uuid.UUID        `json:"id"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Role      enums.MemberRole `json:"role"`
	PartyID   *uuid.UUID       `json:"party_id,omitempty"`
}

// FromModel maps the persisted user into a DTO. The password hash never
// leaves the service layer.
func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	return &UserDTO{
		ID:        m.ID,
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Role:      m.Role,
		PartyID:   m.PartyID,
	}
}
