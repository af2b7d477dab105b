package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating of a purchased product. Each user may review
// a product at most once.
type Review struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:reviews_product_id_idx;uniqueIndex:reviews_product_user_key"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:reviews_product_user_key"`
	QualityRating int       `gorm:"column:quality_rating;not null"`
	ValueRating   int       `gorm:"column:value_rating;not null"`
	Size          string    `gorm:"column:size;not null"`
	Comment       string    `gorm:"column:comment;not null;default:''"`
	ImageURL      *string   `gorm:"column:image_url"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
