package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db"
	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
	pkgerrors "github.com/prajwalbasnet/kinmel-backend/pkg/errors"
)

// Service defines the behavior needed by the review controller.
type Service interface {
	Create(ctx context.Context, userID, productID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID, isAdmin bool) error
}

type repository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productFinder interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     repository
	products productFinder
}

// ServiceParams bundles the dependencies required to build a review service.
type ServiceParams struct {
	Repo     repository
	Products productFinder
}

// NewService constructs a review service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("review repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

func (s *service) Create(ctx context.Context, userID, productID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error) {
	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}

	size := strings.TrimSpace(req.Size)
	if !product.Sizes.Has(size) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("size %q is not offered for this product", size))
	}

	review := &models.Review{
		ProductID:     productID,
		UserID:        userID,
		QualityRating: req.QualityRating,
		ValueRating:   req.ValueRating,
		Size:          size,
		Comment:       strings.TrimSpace(req.Comment),
		ImageURL:      req.ImageURL,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
	}
	return FromModel(review), nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	return FromModels(rows), nil
}

func (s *service) Delete(ctx context.Context, userID, reviewID uuid.UUID, isAdmin bool) error {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup review")
	}
	if review.UserID != userID && !isAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot delete another user's review")
	}
	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete review")
	}
	return nil
}
