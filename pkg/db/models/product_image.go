package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductImage stores a gallery entry for a product.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:product_images_product_id_idx"`
	ImageURL  string    `gorm:"column:image_url;not null"`
	AltText   *string   `gorm:"column:alt_text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
