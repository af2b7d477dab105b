package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
	pkgerrors "github.com/prajwalbasnet/kinmel-backend/pkg/errors"
	"github.com/prajwalbasnet/kinmel-backend/pkg/types"
)

func TestServiceCreateValidatesSizeLabel(t *testing.T) {
	products := &stubProductFinder{}
	product := products.seed(types.SizeStock{"S": 2, "M": 4})
	repo := newStubReviewRepo()
	svc := mustBuildService(t, repo, products)

	_, err := svc.Create(context.Background(), uuid.New(), product.ID, CreateReviewRequest{
		QualityRating: 5,
		ValueRating:   4,
		Size:          "XL",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown size, got %v", err)
	}

	dto, err := svc.Create(context.Background(), uuid.New(), product.ID, CreateReviewRequest{
		QualityRating: 5,
		ValueRating:   4,
		Size:          "M",
		Comment:       "fits well",
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if dto.Size != "M" {
		t.Fatalf("expected size M, got %q", dto.Size)
	}
}

func TestServiceCreateDuplicateReviewConflicts(t *testing.T) {
	products := &stubProductFinder{}
	product := products.seed(types.SizeStock{"M": 4})
	repo := newStubReviewRepo()
	svc := mustBuildService(t, repo, products)

	userID := uuid.New()
	req := CreateReviewRequest{QualityRating: 4, ValueRating: 4, Size: "M"}

	if _, err := svc.Create(context.Background(), userID, product.ID, req); err != nil {
		t.Fatalf("first review: %v", err)
	}
	_, err := svc.Create(context.Background(), userID, product.ID, req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on duplicate review, got %v", err)
	}
}

func TestServiceCreateUnknownProduct(t *testing.T) {
	repo := newStubReviewRepo()
	svc := mustBuildService(t, repo, &stubProductFinder{})

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateReviewRequest{
		QualityRating: 3,
		ValueRating:   3,
		Size:          "M",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServiceDeleteEnforcesOwnership(t *testing.T) {
	products := &stubProductFinder{}
	product := products.seed(types.SizeStock{"M": 4})
	repo := newStubReviewRepo()
	svc := mustBuildService(t, repo, products)

	owner := uuid.New()
	dto, err := svc.Create(context.Background(), owner, product.ID, CreateReviewRequest{
		QualityRating: 4, ValueRating: 4, Size: "M",
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	err = svc.Delete(context.Background(), uuid.New(), dto.ID, false)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign delete, got %v", err)
	}

	if err := svc.Delete(context.Background(), uuid.New(), dto.ID, true); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func mustBuildService(t *testing.T, repo repository, products productFinder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Products: products})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubReviewRepo struct {
	byID map[uuid.UUID]*models.Review
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{byID: map[uuid.UUID]*models.Review{}}
}

func (s *stubReviewRepo) Create(ctx context.Context, review *models.Review) error {
	for _, existing := range s.byID {
		if existing.ProductID == review.ProductID && existing.UserID == review.UserID {
			return &mockUniqueViolation{}
		}
	}
	review.ID = uuid.New()
	s.byID[review.ID] = review
	return nil
}

func (s *stubReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	if review, ok := s.byID[id]; ok {
		return review, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubReviewRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	for _, review := range s.byID {
		if review.ProductID == productID {
			out = append(out, *review)
		}
	}
	return out, nil
}

func (s *stubReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

type mockUniqueViolation struct{}

func (m *mockUniqueViolation) Error() string {
	return "UNIQUE constraint failed: reviews.product_id, reviews.user_id"
}

type stubProductFinder struct {
	byID map[uuid.UUID]*models.Product
}

func (s *stubProductFinder) seed(sizes types.SizeStock) *models.Product {
	if s.byID == nil {
		s.byID = map[uuid.UUID]*models.Product{}
	}
	product := &models.Product{ID: uuid.New(), Name: "Test Product", Sizes: sizes}
	s.byID[product.ID] = product
	return product
}

func (s *stubProductFinder) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}
