package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db"
	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
	pkgerrors "github.com/prajwalbasnet/kinmel-backend/pkg/errors"
	"github.com/prajwalbasnet/kinmel-backend/pkg/pagination"
	"github.com/prajwalbasnet/kinmel-backend/pkg/types"
)

// Service defines the behavior needed by the catalog controllers.
type Service interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	GetCategory(ctx context.Context, slug string) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductDTO, error)
	ListProducts(ctx context.Context, query ListProductsQuery) (*ProductPage, error)
	GetProduct(ctx context.Context, slug string) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type repository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CountProductsInCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	CreateProduct(ctx context.Context, product *models.Product) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo repository
	now  func() time.Time
}

// ServiceParams bundles the dependencies required to build a catalog service.
type ServiceParams struct {
	Repo repository
	Now  func() time.Time
}

// NewService constructs a catalog service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{repo: params.Repo, now: now}, nil
}

func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = Slugify(req.Name)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name yields an empty slug")
	}

	category := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Slug:        slug,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return categoryFromModel(category), nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *categoryFromModel(&categories[i]))
	}
	return out, nil
}

func (s *service) GetCategory(ctx context.Context, slug string) (*CategoryDTO, error) {
	category, err := s.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
	}
	return categoryFromModel(category), nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryDTO, error) {
	category, err := s.categoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		category.Description = strings.TrimSpace(*req.Description)
	}
	if req.Slug != nil {
		category.Slug = strings.TrimSpace(*req.Slug)
	}
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}
	return categoryFromModel(category), nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryByID(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountProductsInCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has products")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	if _, err := s.categoryByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if err := validatePricing(req.Price, req.IsSale, req.SalePrice); err != nil {
		return nil, err
	}
	if err := validateSizes(req.Sizes); err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = Slugify(req.Name)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name yields an empty slug")
	}

	product := &models.Product{
		CategoryID:    req.CategoryID,
		Name:          strings.TrimSpace(req.Name),
		Description:   strings.TrimSpace(req.Description),
		FabricAndCare: strings.TrimSpace(req.FabricAndCare),
		Price:         req.Price,
		Stock:         req.Sizes.Total(),
		Sizes:         req.Sizes,
		IsSale:        req.IsSale,
		SalePrice:     req.SalePrice,
		Slug:          slug,
		Images:        imagesFromInputs(req.Images),
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return productFromModel(product), nil
}

func (s *service) ListProducts(ctx context.Context, query ListProductsQuery) (*ProductPage, error) {
	filter := ProductFilter{
		Search: strings.TrimSpace(query.Search),
		OnSale: query.OnSale,
		Limit:  query.Limit,
	}

	if slug := strings.TrimSpace(query.CategorySlug); slug != "" {
		category, err := s.repo.FindCategoryBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
		}
		filter.CategoryID = &category.ID
	}
	if query.New != nil && *query.New {
		cutoff := NewCutoff(s.now())
		filter.CreatedAfter = &cutoff
	}
	if query.Cursor != "" {
		cursor, err := pagination.ParseCursor(query.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		filter.Cursor = cursor
	}

	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	limit := pagination.NormalizeLimit(query.Limit)
	page := &ProductPage{Products: make([]ProductDTO, 0, len(products))}
	if len(products) > limit {
		products = products[:limit]
		last := products[len(products)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	for i := range products {
		page.Products = append(page.Products, *productFromModel(&products[i]))
	}
	return page, nil
}

func (s *service) GetProduct(ctx context.Context, slug string) (*ProductDTO, error) {
	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	return productFromModel(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.FabricAndCare != nil {
		product.FabricAndCare = strings.TrimSpace(*req.FabricAndCare)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.IsSale != nil {
		product.IsSale = *req.IsSale
	}
	if req.SalePrice != nil {
		product.SalePrice = req.SalePrice
	}
	if req.Sizes != nil {
		if err := validateSizes(*req.Sizes); err != nil {
			return nil, err
		}
		product.Sizes = *req.Sizes
		product.Stock = req.Sizes.Total()
	}
	if req.Slug != nil {
		product.Slug = strings.TrimSpace(*req.Slug)
		if product.Slug == "" {
			product.Slug = Slugify(product.Name)
		}
	}
	if req.Images != nil {
		product.Images = imagesFromInputs(req.Images)
	}

	if err := validatePricing(product.Price, product.IsSale, product.SalePrice); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return productFromModel(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindProductByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) categoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
	}
	return category, nil
}

func validatePricing(price decimal.Decimal, isSale bool, salePrice *decimal.Decimal) error {
	if price.IsNegative() || price.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if salePrice != nil && salePrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale price cannot be negative")
	}
	if isSale && salePrice != nil && salePrice.GreaterThanOrEqual(price) {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale price must be less than price")
	}
	return nil
}

func validateSizes(sizes types.SizeStock) error {
	if len(sizes) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one size is required")
	}
	for label, count := range sizes {
		if strings.TrimSpace(label) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "size labels cannot be empty")
		}
		if count < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size %q has a negative count", label))
		}
	}
	return nil
}

func imagesFromInputs(inputs []ProductImageInput) []models.ProductImage {
	if inputs == nil {
		return nil
	}
	images := make([]models.ProductImage, 0, len(inputs))
	for _, in := range inputs {
		images = append(images, models.ProductImage{ImageURL: in.ImageURL, AltText: in.AltText})
	}
	return images
}
