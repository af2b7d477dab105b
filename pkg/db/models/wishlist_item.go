package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem links a wishlist to a saved product. At most one entry per
// (wishlist, product) pair; re-adding replaces the stored size.
type WishlistItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WishlistID uuid.UUID `gorm:"column:wishlist_id;type:uuid;not null;index:wishlist_items_wishlist_id_idx;uniqueIndex:wishlist_items_wishlist_product_key"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:wishlist_items_wishlist_product_key"`
	Size       *string   `gorm:"column:size"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
