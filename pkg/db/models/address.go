package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a shipping destination owned by a user.
type Address struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:addresses_user_id_idx"`
	AddressName   string    `gorm:"column:address_name;not null"`
	RecipientName *string   `gorm:"column:recipient_name"`
	StreetName    string    `gorm:"column:street_name;not null"`
	PhoneNumber   string    `gorm:"column:phone_number;not null"`
	City          string    `gorm:"column:city;not null"`
	IsDefault     bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
