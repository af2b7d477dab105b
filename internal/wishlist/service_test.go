package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
	pkgerrors "github.com/prajwalbasnet/kinmel-backend/pkg/errors"
	"github.com/prajwalbasnet/kinmel-backend/pkg/types"
)

func TestServiceAddItemLatestSizeWins(t *testing.T) {
	repo := newStubWishlistRepo()
	products := newStubProducts()
	product := products.seed(types.SizeStock{"S": 1, "M": 2, "L": 3})
	svc := mustBuildService(t, repo, products)
	userID := uuid.New()

	sizeM := "M"
	if _, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Size: &sizeM}); err != nil {
		t.Fatalf("first add: %v", err)
	}

	sizeL := "L"
	dto, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Size: &sizeL})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(dto.Items) != 1 {
		t.Fatalf("expected one row per product, got %d", len(dto.Items))
	}
	if dto.Items[0].Size == nil || *dto.Items[0].Size != "L" {
		t.Fatalf("expected latest size L, got %v", dto.Items[0].Size)
	}
}

func TestServiceAddItemValidatesSize(t *testing.T) {
	repo := newStubWishlistRepo()
	products := newStubProducts()
	product := products.seed(types.SizeStock{"M": 2})
	svc := mustBuildService(t, repo, products)

	bad := "XXL"
	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: product.ID, Size: &bad})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown size, got %v", err)
	}
}

func TestServiceAddItemWithoutSize(t *testing.T) {
	repo := newStubWishlistRepo()
	products := newStubProducts()
	product := products.seed(types.SizeStock{"M": 2})
	svc := mustBuildService(t, repo, products)

	dto, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: product.ID})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(dto.Items) != 1 || dto.Items[0].Size != nil {
		t.Fatalf("expected a sizeless entry, got %+v", dto.Items)
	}
}

func TestServiceRemoveMissingProductIsNotFound(t *testing.T) {
	repo := newStubWishlistRepo()
	svc := mustBuildService(t, repo, newStubProducts())

	_, err := svc.RemoveItem(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServiceRemoveDeletesEntry(t *testing.T) {
	repo := newStubWishlistRepo()
	products := newStubProducts()
	product := products.seed(types.SizeStock{"M": 2})
	svc := mustBuildService(t, repo, products)
	userID := uuid.New()

	if _, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	dto, err := svc.RemoveItem(context.Background(), userID, product.ID)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if len(dto.Items) != 0 {
		t.Fatalf("expected empty wishlist, got %d items", len(dto.Items))
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

type stubWishlistRepo struct {
	lists map[uuid.UUID]*models.Wishlist
	items map[uuid.UUID]*models.WishlistItem
}

func newStubWishlistRepo() *stubWishlistRepo {
	return &stubWishlistRepo{
		lists: map[uuid.UUID]*models.Wishlist{},
		items: map[uuid.UUID]*models.WishlistItem{},
	}
}

func (s *stubWishlistRepo) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	wl, ok := s.lists[userID]
	if !ok {
		wl = &models.Wishlist{ID: uuid.New(), UserID: userID}
		s.lists[userID] = wl
	}
	wl.Items = nil
	for _, item := range s.items {
		if item.WishlistID == wl.ID {
			wl.Items = append(wl.Items, *item)
		}
	}
	return wl, nil
}

func (s *stubWishlistRepo) UpsertItem(ctx context.Context, item *models.WishlistItem) error {
	for _, existing := range s.items {
		if existing.WishlistID == item.WishlistID && existing.ProductID == item.ProductID {
			existing.Size = item.Size
			return nil
		}
	}
	item.ID = uuid.New()
	s.items[item.ID] = item
	return nil
}

func (s *stubWishlistRepo) DeleteItemByProduct(ctx context.Context, wishlistID, productID uuid.UUID) error {
	for id, item := range s.items {
		if item.WishlistID == wishlistID && item.ProductID == productID {
			delete(s.items, id)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubProducts struct {
	byID map[uuid.UUID]*models.Product
}

func newStubProducts() *stubProducts {
	return &stubProducts{byID: map[uuid.UUID]*models.Product{}}
}

func (s *stubProducts) seed(sizes types.SizeStock) *models.Product {
	product := &models.Product{ID: uuid.New(), Name: "Test Product", Sizes: sizes}
	s.byID[product.ID] = product
	return product
}

func (s *stubProducts) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProducts) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if product, ok := s.byID[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}
