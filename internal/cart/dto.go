package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prajwalbasnet/kinmel-backend/internal/catalog"
	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
)

// CartDTO is the wire representation of a user's cart.
type CartDTO struct {
	ID        uuid.UUID       `json:"id"`
	Items     []CartItemDTO   `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
}

// CartItemDTO is one sized line in the cart with its product summary.
type CartItemDTO struct {
	ID       uuid.UUID                  `json:"id"`
	Product  *catalog.ProductSummaryDTO `json:"product"`
	Size     string                     `json:"size"`
	Quantity int                        `json:"quantity"`
	LineCost decimal.Decimal            `json:"line_cost"`
}

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product" validate:"required"`
	Size      string    `json:"size" validate:"required,max=20"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// UpdateItemRequest changes the quantity of an existing cart line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func itemFromModel(item *models.CartItem, product *models.Product) CartItemDTO {
	dto := CartItemDTO{
		ID:       item.ID,
		Size:     item.Size,
		Quantity: item.Quantity,
	}
	if product != nil {
		dto.Product = catalog.SummaryFromModel(product)
		dto.LineCost = product.EffectivePrice().Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return dto
}
