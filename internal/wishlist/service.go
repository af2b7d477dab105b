package wishlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
	pkgerrors "github.com/prajwalbasnet/kinmel-backend/pkg/errors"
)

// Service defines the behavior needed by the wishlist controller.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*WishlistDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*WishlistDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*WishlistDTO, error)
}

type repository interface {
	GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error)
	UpsertItem(ctx context.Context, item *models.WishlistItem) error
	DeleteItemByProduct(ctx context.Context, wishlistID, productID uuid.UUID) error
}

type productFinder interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type service struct {
	repo     repository
	products productFinder
}

// ServiceParams bundles the dependencies required to build a wishlist service.
type ServiceParams struct {
	Repo     repository
	Products productFinder
}

// NewService constructs a wishlist service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("wishlist repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*WishlistDTO, error) {
	wl, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wishlist")
	}
	return s.buildDTO(ctx, wl)
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*WishlistDTO, error) {
	wl, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wishlist")
	}

	product, err := s.products.FindProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}

	size := req.Size
	if size != nil {
		trimmed := strings.TrimSpace(*size)
		if trimmed == "" {
			size = nil
		} else {
			if !product.Sizes.Has(trimmed) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("size %q is not offered for this product", trimmed))
			}
			size = &trimmed
		}
	}

	item := &models.WishlistItem{
		WishlistID: wl.ID,
		ProductID:  product.ID,
		Size:       size,
	}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save wishlist item")
	}

	return s.reload(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*WishlistDTO, error) {
	wl, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wishlist")
	}
	if err := s.repo.DeleteItemByProduct(ctx, wl.ID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the wishlist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove wishlist item")
	}
	return s.reload(ctx, userID)
}

func (s *service) reload(ctx context.Context, userID uuid.UUID) (*WishlistDTO, error) {
	wl, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload wishlist")
	}
	return s.buildDTO(ctx, wl)
}

func (s *service) buildDTO(ctx context.Context, wl *models.Wishlist) (*WishlistDTO, error) {
	dto := &WishlistDTO{
		ID:        wl.ID,
		Items:     make([]WishlistItemDTO, 0, len(wl.Items)),
		CreatedAt: wl.CreatedAt,
	}
	if len(wl.Items) == 0 {
		return dto, nil
	}

	ids := make([]uuid.UUID, 0, len(wl.Items))
	for _, item := range wl.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wishlist products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for i := range wl.Items {
		item := &wl.Items[i]
		dto.Items = append(dto.Items, itemFromModel(item, byID[item.ProductID]))
	}
	return dto, nil
}
