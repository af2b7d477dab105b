package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
)

// Repository exposes wishlist persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateByUser loads the user's wishlist with items, creating it on
// first access.
func (r *Repository) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	var wl models.Wishlist
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&wl).Error
	if err == nil {
		return &wl, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wl = models.Wishlist{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&wl).Error; err != nil {
		return nil, err
	}
	return &wl, nil
}

// UpsertItem inserts the (wishlist, product) row or, when it already exists,
// replaces the stored size. Exactly one row per product survives.
func (r *Repository) UpsertItem(ctx context.Context, item *models.WishlistItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wishlist_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"size", "updated_at"}),
		}).
		Create(item).Error
}

// DeleteItemByProduct removes the saved entry for the product. Returns
// gorm.ErrRecordNotFound when no row was deleted.
func (r *Repository) DeleteItemByProduct(ctx context.Context, wishlistID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.WishlistItem{}, "wishlist_id = ? AND product_id = ?", wishlistID, productID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
