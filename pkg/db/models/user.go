package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/loomery-io/loomery-backend/pkg/enums"
)

// User is a platform login. Retail users are attached to a party;
// admins are not.
type User struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string           `gorm:"column:email;not null;uniqueIndex"`
	FirstName    string           `gorm:"column:first_name;not null"`
	LastName     string           `gorm:"column:last_name;not null"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	Role         enums.MemberRole `gorm:"column:role;not null;default:'retailer'"`
	PartyID      *uuid.UUID       `gorm:"column:party_id;type:uuid"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
