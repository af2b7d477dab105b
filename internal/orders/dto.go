package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prajwalbasnet/kinmel-backend/internal/catalog"
	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
)

// OrderLineInput is one checkout line. The quantity travels under the
// `stock` key, matching the public API contract.
type OrderLineInput struct {
	ProductID uuid.UUID `json:"product" validate:"required"`
	Quantity  int       `json:"stock" validate:"required,min=1"`
}

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	AddressID     uuid.UUID        `json:"address" validate:"required"`
	Products      []OrderLineInput `json:"products" validate:"required,min=1,dive"`
	PaymentMethod string           `json:"payment_method"`
}

// PlaceOrderResponse acknowledges a successful checkout.
type PlaceOrderResponse struct {
	Message string    `json:"message"`
	OrderID uuid.UUID `json:"order_id"`
}

// UpdateOrderStatusRequest is a partial admin update; omitted fields keep
// their current values.
type UpdateOrderStatusRequest struct {
	PaymentStatus *string `json:"payment_status"`
	Status        *string `json:"status"`
}

// OrderItemDTO is one line of a placed order. Price fields reflect the live
// product at read time.
type OrderItemDTO struct {
	ID       uuid.UUID                  `json:"id"`
	Product  *catalog.ProductSummaryDTO `json:"product"`
	Quantity int                        `json:"quantity"`
	LineCost decimal.Decimal            `json:"line_cost"`
}

// OrderDTO is the wire representation of an order.
type OrderDTO struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user"`
	AddressID     *uuid.UUID      `json:"address,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	Status        string          `json:"status"`
	Items         []OrderItemDTO  `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
}

func fromModel(o *models.Order, productsByID map[uuid.UUID]*models.Product) *OrderDTO {
	dto := &OrderDTO{
		ID:            o.ID,
		UserID:        o.UserID,
		AddressID:     o.AddressID,
		TotalAmount:   o.TotalAmount,
		PaymentMethod: o.PaymentMethod.String(),
		PaymentStatus: o.PaymentStatus.String(),
		Status:        o.Status.String(),
		Items:         make([]OrderItemDTO, 0, len(o.Items)),
		CreatedAt:     o.CreatedAt,
	}
	for i := range o.Items {
		item := &o.Items[i]
		line := OrderItemDTO{ID: item.ID, Quantity: item.Quantity}
		if product := productsByID[item.ProductID]; product != nil {
			line.Product = catalog.SummaryFromModel(product)
			line.LineCost = product.EffectivePrice().Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		dto.Items = append(dto.Items, line)
	}
	return dto
}
