package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/loomery-io/loomery-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID  uuid.UUID
	PartyID *uuid.UUID
	Role    enums.MemberRole
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID  uuid.UUID        `json:"user_id"`
	PartyID *uuid.UUID       `json:"party_id,omitempty"`
	Role    enums.MemberRole `json:"role"`
	jwt.RegisteredClaims
}
