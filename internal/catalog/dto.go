package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
	"github.com/prajwalbasnet/kinmel-backend/pkg/types"
)

// CategoryDTO is the wire representation of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCategoryRequest is the payload for adding a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Slug        string `json:"slug" validate:"omitempty,max=140"`
}

// UpdateCategoryRequest carries partial category updates.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Slug        *string `json:"slug" validate:"omitempty,max=140"`
}

// ProductImageDTO is a single gallery entry.
type ProductImageDTO struct {
	ID       uuid.UUID `json:"id"`
	ImageURL string    `json:"image_url"`
	AltText  *string   `json:"alt_text,omitempty"`
}

// ProductImageInput describes an image attached on create/update.
type ProductImageInput struct {
	ImageURL string  `json:"image_url" validate:"required,url"`
	AltText  *string `json:"alt_text" validate:"omitempty,max=255"`
}

// ProductDTO is the wire representation of a product.
type ProductDTO struct {
	ID             uuid.UUID         `json:"id"`
	CategoryID     uuid.UUID         `json:"category"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	FabricAndCare  string            `json:"fabric_and_care"`
	Price          decimal.Decimal   `json:"price"`
	EffectivePrice decimal.Decimal   `json:"effective_price"`
	Stock          int               `json:"stock"`
	Sizes          types.SizeStock   `json:"sizes"`
	IsSale         bool              `json:"is_sale"`
	SalePrice      *decimal.Decimal  `json:"sale_price,omitempty"`
	Slug           string            `json:"slug"`
	Images         []ProductImageDTO `json:"images"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ProductSummaryDTO is the compact shape embedded in cart, wishlist and
// order item payloads.
type ProductSummaryDTO struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Price          decimal.Decimal `json:"price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	IsSale         bool            `json:"is_sale"`
	ImageURL       *string         `json:"image_url,omitempty"`
}

// CreateProductRequest is the admin payload for adding a product.
type CreateProductRequest struct {
	Name          string              `json:"name" validate:"required,max=255"`
	CategoryID    uuid.UUID           `json:"category" validate:"required"`
	Description   string              `json:"description" validate:"max=5000"`
	FabricAndCare string              `json:"fabric_and_care" validate:"max=2000"`
	Price         decimal.Decimal     `json:"price" validate:"required"`
	Sizes         types.SizeStock     `json:"sizes" validate:"required"`
	IsSale        bool                `json:"is_sale"`
	SalePrice     *decimal.Decimal    `json:"sale_price"`
	Slug          string              `json:"slug" validate:"omitempty,max=280"`
	Images        []ProductImageInput `json:"images" validate:"omitempty,dive"`
}

// UpdateProductRequest carries partial product updates; nil fields are left
// untouched. Sizes, when present, replace the whole map and recompute stock.
type UpdateProductRequest struct {
	Name          *string             `json:"name" validate:"omitempty,max=255"`
	CategoryID    *uuid.UUID          `json:"category"`
	Description   *string             `json:"description" validate:"omitempty,max=5000"`
	FabricAndCare *string             `json:"fabric_and_care" validate:"omitempty,max=2000"`
	Price         *decimal.Decimal    `json:"price"`
	Sizes         *types.SizeStock    `json:"sizes"`
	IsSale        *bool               `json:"is_sale"`
	SalePrice     *decimal.Decimal    `json:"sale_price"`
	Slug          *string             `json:"slug" validate:"omitempty,max=280"`
	Images        []ProductImageInput `json:"images" validate:"omitempty,dive"`
}

// ListProductsQuery captures the catalog browse filters.
type ListProductsQuery struct {
	Search       string
	CategorySlug string
	OnSale       *bool
	New          *bool
	Limit        int
	Cursor       string
}

// ProductPage is a cursor-paginated product listing.
type ProductPage struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func categoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Slug:        c.Slug,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func productFromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	images := make([]ProductImageDTO, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ProductImageDTO{ID: img.ID, ImageURL: img.ImageURL, AltText: img.AltText})
	}
	return &ProductDTO{
		ID:             p.ID,
		CategoryID:     p.CategoryID,
		Name:           p.Name,
		Description:    p.Description,
		FabricAndCare:  p.FabricAndCare,
		Price:          p.Price,
		EffectivePrice: p.EffectivePrice(),
		Stock:          p.Stock,
		Sizes:          p.Sizes,
		IsSale:         p.IsSale,
		SalePrice:      p.SalePrice,
		Slug:           p.Slug,
		Images:         images,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// SummaryFromModel builds the compact product shape shared with the cart,
// wishlist and order surfaces.
func SummaryFromModel(p *models.Product) *ProductSummaryDTO {
	if p == nil {
		return nil
	}
	summary := &ProductSummaryDTO{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		Price:          p.Price,
		EffectivePrice: p.EffectivePrice(),
		IsSale:         p.IsSale,
	}
	if len(p.Images) > 0 {
		summary.ImageURL = &p.Images[0].ImageURL
	}
	return summary
}
