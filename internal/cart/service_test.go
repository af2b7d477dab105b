package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
	pkgerrors "github.com/prajwalbasnet/kinmel-backend/pkg/errors"
	"github.com/prajwalbasnet/kinmel-backend/pkg/types"
)

func TestServiceGetCreatesCartLazily(t *testing.T) {
	repo := newStubCartRepo()
	svc := mustBuildService(t, repo, newStubProducts())

	dto, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if dto.ID == uuid.Nil {
		t.Fatal("expected a cart to be created")
	}
	if len(dto.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(dto.Items))
	}
}

func TestServiceClearEmptiesCart(t *testing.T) {
	repo := newStubCartRepo()
	products := newStubProducts()
	product := products.seed(decimal.NewFromInt(500), types.SizeStock{"M": 5})
	svc := mustBuildService(t, repo, products)
	userID := uuid.New()

	if _, err := svc.AddItem(context.Background(), userID, AddItemRequest{
		ProductID: product.ID,
		Size:      "M",
		Quantity:  2,
	}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	dto, err := svc.Clear(context.Background(), userID)
	if err != nil {
		t.Fatalf("clear cart: %v", err)
	}
	if len(dto.Items) != 0 {
		t.Fatalf("expected cleared cart, got %d items", len(dto.Items))
	}
	if !dto.Subtotal.IsZero() {
		t.Fatalf("expected zero subtotal, got %s", dto.Subtotal)
	}
}

func TestServiceAddItemValidatesSize(t *testing.T) {
	repo := newStubCartRepo()
	products := newStubProducts()
	product := products.seed(decimal.NewFromInt(1200), types.SizeStock{"S": 2, "M": 3})
	svc := mustBuildService(t, repo, products)

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{
		ProductID: product.ID,
		Size:      "XXL",
		Quantity:  1,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown size, got %v", err)
	}
}

func TestServiceAddItemComputesLineCostFromEffectivePrice(t *testing.T) {
	repo := newStubCartRepo()
	products := newStubProducts()
	sale := decimal.NewFromInt(900)
	product := products.seed(decimal.NewFromInt(1200), types.SizeStock{"M": 5})
	product.IsSale = true
	product.SalePrice = &sale
	svc := mustBuildService(t, repo, products)

	dto, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{
		ProductID: product.ID,
		Size:      "M",
		Quantity:  3,
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(dto.Items) != 1 {
		t.Fatalf("expected one cart line, got %d", len(dto.Items))
	}
	want := decimal.NewFromInt(2700)
	if !dto.Items[0].LineCost.Equal(want) {
		t.Fatalf("expected line cost %s, got %s", want, dto.Items[0].LineCost)
	}
	if !dto.Subtotal.Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, dto.Subtotal)
	}
}

func TestServiceAddItemMergesSameProductAndSize(t *testing.T) {
	repo := newStubCartRepo()
	products := newStubProducts()
	product := products.seed(decimal.NewFromInt(500), types.SizeStock{"M": 10})
	svc := mustBuildService(t, repo, products)
	userID := uuid.New()

	req := AddItemRequest{ProductID: product.ID, Size: "M", Quantity: 2}
	if _, err := svc.AddItem(context.Background(), userID, req); err != nil {
		t.Fatalf("first add: %v", err)
	}
	dto, err := svc.AddItem(context.Background(), userID, req)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(dto.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(dto.Items))
	}
	if dto.Items[0].Quantity != 4 {
		t.Fatalf("expected merged quantity 4, got %d", dto.Items[0].Quantity)
	}
}

func TestServiceRemoveMissingItemIsNotFound(t *testing.T) {
	repo := newStubCartRepo()
	svc := mustBuildService(t, repo, newStubProducts())

	_, err := svc.RemoveItem(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
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

type stubCartRepo struct {
	carts map[uuid.UUID]*models.Cart
	items map[uuid.UUID]*models.CartItem
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{
		carts: map[uuid.UUID]*models.Cart{},
		items: map[uuid.UUID]*models.CartItem{},
	}
}

func (s *stubCartRepo) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, ok := s.carts[userID]
	if !ok {
		cart = &models.Cart{ID: uuid.New(), UserID: userID}
		s.carts[userID] = cart
	}
	cart.Items = nil
	for _, item := range s.items {
		if item.CartID == cart.ID {
			cart.Items = append(cart.Items, *item)
		}
	}
	return cart, nil
}

func (s *stubCartRepo) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	if item, ok := s.items[itemID]; ok && item.CartID == cartID {
		return item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) FindItemByProductSize(ctx context.Context, cartID, productID uuid.UUID, size string) (*models.CartItem, error) {
	for _, item := range s.items {
		if item.CartID == cartID && item.ProductID == productID && item.Size == size {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) error {
	item.ID = uuid.New()
	s.items[item.ID] = item
	return nil
}

func (s *stubCartRepo) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	if item, ok := s.items[itemID]; ok {
		item.Quantity = quantity
	}
	return nil
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	delete(s.items, itemID)
	return nil
}

func (s *stubCartRepo) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	cart, ok := s.carts[userID]
	if !ok {
		return nil
	}
	for id, item := range s.items {
		if item.CartID == cart.ID {
			delete(s.items, id)
		}
	}
	return nil
}

type stubProducts struct {
	byID map[uuid.UUID]*models.Product
}

func newStubProducts() *stubProducts {
	return &stubProducts{byID: map[uuid.UUID]*models.Product{}}
}

func (s *stubProducts) seed(price decimal.Decimal, sizes types.SizeStock) *models.Product {
	product := &models.Product{ID: uuid.New(), Name: "Test Product", Price: price, Sizes: sizes}
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
