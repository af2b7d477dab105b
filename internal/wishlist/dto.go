package wishlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/prajwalbasnet/kinmel-backend/internal/catalog"
	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
)

// WishlistDTO is the wire representation of a user's wishlist.
type WishlistDTO struct {
	ID        uuid.UUID         `json:"id"`
	Items     []WishlistItemDTO `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
}

// WishlistItemDTO is one saved product, optionally with a preferred size.
type WishlistItemDTO struct {
	ID      uuid.UUID                  `json:"id"`
	Product *catalog.ProductSummaryDTO `json:"product"`
	Size    *string                    `json:"size,omitempty"`
	AddedAt time.Time                  `json:"added_at"`
}

// AddItemRequest is the payload for saving a product to the wishlist.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product" validate:"required"`
	Size      *string   `json:"size" validate:"omitempty,max=20"`
}

func itemFromModel(item *models.WishlistItem, product *models.Product) WishlistItemDTO {
	dto := WishlistItemDTO{
		ID:      item.ID,
		Size:    item.Size,
		AddedAt: item.CreatedAt,
	}
	if product != nil {
		dto.Product = catalog.SummaryFromModel(product)
	}
	return dto
}
