package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prajwalbasnet/kinmel-backend/pkg/enums"
)

// Order is a placed checkout. The total and line items are immutable after
// creation; only the payment and fulfillment statuses may change.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	AddressID     *uuid.UUID          `gorm:"column:address_id;type:uuid"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null;default:'COD'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;not null;default:'Pending'"`
	Status        enums.OrderStatus   `gorm:"column:status;not null;default:'Pending'"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
