package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prajwalbasnet/kinmel-backend/pkg/types"
)

// Product represents a catalog listing with per-size inventory.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID    uuid.UUID        `gorm:"column:category_id;type:uuid;not null;index:products_category_id_idx"`
	Name          string           `gorm:"column:name;not null"`
	Description   string           `gorm:"column:description;not null"`
	FabricAndCare string           `gorm:"column:fabric_and_care;not null"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	Stock         int              `gorm:"column:stock;not null;default:0"`
	Sizes         types.SizeStock  `gorm:"column:sizes;type:jsonb;serializer:json;not null"`
	IsSale        bool             `gorm:"column:is_sale;not null;default:false"`
	SalePrice     *decimal.Decimal `gorm:"column:sale_price;type:numeric(10,2)"`
	Slug          string           `gorm:"column:slug;not null;uniqueIndex"`
	Images        []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice returns the sale price when the product is on sale and a
// sale price is set, otherwise the base price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.IsSale && p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}
