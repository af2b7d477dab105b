package address

import (
	"time"

	"github.com/google/uuid"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
)

// AddressDTO is the wire representation of a shipping address.
type AddressDTO struct {
	ID            uuid.UUID `json:"id"`
	AddressName   string    `json:"address_name"`
	RecipientName *string   `json:"recipient_name,omitempty"`
	StreetName    string    `json:"street_name"`
	PhoneNumber   string    `json:"phone_number"`
	City          string    `json:"city"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateAddressRequest is the payload for adding a new address.
type CreateAddressRequest struct {
	AddressName   string  `json:"address_name" validate:"required,max=120"`
	RecipientName *string `json:"recipient_name" validate:"omitempty,max=120"`
	StreetName    string  `json:"street_name" validate:"required,max=255"`
	PhoneNumber   string  `json:"phone_number" validate:"required,max=20"`
	City          string  `json:"city" validate:"required,max=120"`
	IsDefault     bool    `json:"is_default"`
}

// UpdateAddressRequest carries partial updates; nil fields are left untouched.
type UpdateAddressRequest struct {
	AddressName   *string `json:"address_name" validate:"omitempty,max=120"`
	RecipientName *string `json:"recipient_name" validate:"omitempty,max=120"`
	StreetName    *string `json:"street_name" validate:"omitempty,max=255"`
	PhoneNumber   *string `json:"phone_number" validate:"omitempty,max=20"`
	City          *string `json:"city" validate:"omitempty,max=120"`
	IsDefault     *bool   `json:"is_default"`
}

func FromModel(a *models.Address) *AddressDTO {
	if a == nil {
		return nil
	}
	return &AddressDTO{
		ID:            a.ID,
		AddressName:   a.AddressName,
		RecipientName: a.RecipientName,
		StreetName:    a.StreetName,
		PhoneNumber:   a.PhoneNumber,
		City:          a.City,
		IsDefault:     a.IsDefault,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func FromModels(addresses []models.Address) []AddressDTO {
	out := make([]AddressDTO, 0, len(addresses))
	for i := range addresses {
		out = append(out, *FromModel(&addresses[i]))
	}
	return out
}
